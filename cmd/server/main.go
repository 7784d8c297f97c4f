package main

import "github.com/thereayou/tilescore/internal/server"

func main() {
	server.NewServer().Run()
}
