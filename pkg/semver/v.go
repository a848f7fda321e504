package semver

import (
	"strconv"
	"strings"
)

type (
	// V is structured semantic version representation
	V struct {
		Major, Minor, Patch uint
		PreRelease          string
		BuildMetadata       []string
	}
)

// WithBuild - returns copy of version with extra build identifiers, empty identifiers are skipped.
// Binaries use it to stamp the version with values injected by the linker.
func (v V) WithBuild(identifiers ...string) V {
	meta := make([]string, 0, len(v.BuildMetadata)+len(identifiers))
	meta = append(meta, v.BuildMetadata...)
	for _, id := range identifiers {
		if id = strings.TrimSpace(id); id != "" {
			meta = append(meta, id)
		}
	}
	v.BuildMetadata = meta
	return v
}

func (v V) String() string {
	b := make([]byte, 0, 16)
	b = strconv.AppendUint(b, uint64(v.Major), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(v.Minor), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(v.Patch), 10)
	if v.PreRelease != "" {
		b = append(b, '-')
		b = append(b, v.PreRelease...)
	}
	if len(v.BuildMetadata) > 0 {
		b = append(b, '+')
		b = append(b, strings.Join(v.BuildMetadata, ".")...)
	}
	return string(b)
}
