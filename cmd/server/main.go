package main

import "pendler/internal/app/server"

func main() {
	server.Run()
}
