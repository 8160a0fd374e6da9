//go:build e2e

package test

import (
	"fmt"
	"net"
)

// randomPort grabs a free TCP port from the kernel and returns it as a
// string ready for APP_PORT.
func randomPort() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", port), nil
}
