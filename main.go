package main

import "childcare-tasks.com/childcare-tasks/cmd"

func main() {
	cmd.Execute()
}
