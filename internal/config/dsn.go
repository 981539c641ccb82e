package config

import (
	"net"
	"net/url"
	"strconv"
)

// hostPort joins host and port, bracketing IPv6 hosts.
func hostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// urlQueryEscape keeps passwords such as "pa:ss@word" from breaking the DSN.
func urlQueryEscape(s string) string {
	return url.QueryEscape(s)
}
