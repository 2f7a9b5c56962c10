package net

import (
	"fmt"
	"log"
	"net"
)

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// no route out: fall back to the interfaces
		return firstIPv4().String(), nil
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	log.Println("[MIRROR] No suitable local IP found, share link uses loopback.")
	return net.IPv4(127, 0, 0, 1)
}

// ShareLink builds the link viewers open to watch this host.
func ShareLink(ip string, port int) string {
	return fmt.Sprintf("%s%s", CustomURLScheme, net.JoinHostPort(ip, fmt.Sprint(port)))
}
