package main

import "github.com/laetho/slack-message/cmd"

func main() {
	cmd.Execute()
}
