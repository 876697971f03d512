// Command admin is a standalone client for the server's admin
// websocket bridge: it reads commands from stdin, sends each as a
// frame, and prints the server's reply.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/gorilla/websocket"

	"github.com/rtype/arcade/pkg/wire"
)

type frame struct {
	Password string `json:"password,omitempty"`
	Command  string `json:"command"`
}

type result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func main() {
	addr := flag.String("addr", fmt.Sprintf("127.0.0.1:%d", wire.DefaultAdminPort), "admin bridge host:port")
	password := flag.String("password", "", "admin password, required for non-loopback connections")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/admin/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "admin: connecting to %s: %v\n", u.String(), err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("connected to %s (type 'help' for commands)\n", u.String())

	scanner := bufio.NewScanner(os.Stdin)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		f := frame{Command: line}
		if first && *password != "" {
			f.Password = *password
		}
		first = false

		if err := conn.WriteJSON(f); err != nil {
			fmt.Fprintf(os.Stderr, "admin: send: %v\n", err)
			return
		}
		var r result
		if err := conn.ReadJSON(&r); err != nil {
			fmt.Fprintf(os.Stderr, "admin: receive: %v\n", err)
			return
		}
		printResult(r)
	}
}

func printResult(r result) {
	status := "ok"
	if !r.Success {
		status = "error"
	}
	if r.Message == "" {
		fmt.Println(status)
		return
	}
	fmt.Printf("%s: %s\n", status, r.Message)
}
