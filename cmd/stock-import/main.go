package main

import "github.com/wishstock/wishlist/cmd/stock-import/commands"

func main() {
	commands.Execute()
}
