// Package `chatcli` implements client application for fixed-frame chat over TCP.
//
// The client connects to the server once, asks for the display name and then
// sends every typed line while printing messages of other participants.
// Press Ctrl-D to leave the chat.
//
//	chatcli localhost
//	chatcli chat.example.com 7100
package main
