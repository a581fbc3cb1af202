/*
Copyright © 2024 Victor Hang
*/
package main

import (
	"github.com/Banh-Canh/jtv/cmd"
	"github.com/Banh-Canh/jtv/internal/utils"
)

func main() {
	defer utils.SyncLogger()
	cmd.Execute()
}
