package semver

import "testing"

func TestV_String(test *testing.T) {
	cases := []struct {
		v        V
		expected string
	}{
		{V{}, "0.0.0"},
		{V{Major: 1}, "1.0.0"},
		{V{Major: 1, Minor: 2}, "1.2.0"},
		{V{Major: 1, Minor: 2, Patch: 3}, "1.2.3"},
		{V{PreRelease: "alfa"}, "0.0.0-alfa"},
		{V{BuildMetadata: []string{"tag1", "tag2"}}, "0.0.0+tag1.tag2"},
		{V{Major: 1, Minor: 2, Patch: 3, PreRelease: "beta", BuildMetadata: []string{"x64"}}, "1.2.3-beta+x64"},
	}

	for _, c := range cases {
		test.Logf("%#v", c.v)
		actual := c.v.String()
		if actual != c.expected {
			test.Errorf("Error: expected %q, actual %q", c.expected, actual)
		}
	}
}

func TestV_WithBuild(test *testing.T) {
	base := V{Minor: 4, BuildMetadata: []string{"linux"}}
	cases := []struct {
		identifiers []string
		expected    string
	}{
		{nil, "0.4.0+linux"},
		{[]string{""}, "0.4.0+linux"},
		{[]string{" 1a2b3c ", "", "dirty"}, "0.4.0+linux.1a2b3c.dirty"},
	}

	for _, c := range cases {
		actual := base.WithBuild(c.identifiers...).String()
		if actual != c.expected {
			test.Errorf("WithBuild(%q): expected %q, actual %q", c.identifiers, c.expected, actual)
		}
	}
	if len(base.BuildMetadata) != 1 {
		test.Error("WithBuild must not modify original version", base.BuildMetadata)
	}
}
