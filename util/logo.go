package util

import (
	"fmt"
	"github.com/hetianyi/fdfs/common"
)

func PrintLogo() {
	fmt.Print(`
    ______ ____   ______ _____
   / ____// __ \ / ____// ___/
  / /_   / / / // /_    \__ \    fdfs client::v` + common.VERSION + `
 / __/  / /_/ // __/   ___/ /    tracker/storage protocol client.
/_/    /_____//_/     /____/     github.com/hetianyi/fdfs

`)
}
