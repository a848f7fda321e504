// Package `chatsrv` implements server application for fixed-frame chat over TCP.
//
// Every client message is a 255-byte frame, the server relays it to all other
// connected clients with the sender IP address in front of the text.
//
// To compile chat server locally, run from package directory:
//
//	go install .
//
// Or quickly launch server on the default port 7000 with command:
//
//	go run .
//
// Custom port may be passed as single argument or with --port flag:
//
//	chatsrv 7100
package main
