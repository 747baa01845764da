package command

import (
	"fmt"
	"os"
)

// call calls handler function due to command.
func call(cmd Command) {
	var err error
	switch cmd {
	case CMD_INIT_CONFIG:
		err = handleInitConfig()
	case CMD_SHOW_CONFIG:
		err = withConfig(handleShowConfig)
	case CMD_UPLOAD_FILE:
		err = withConfig(handleUploadFile)
	case CMD_LIST_STORAGES:
		err = withConfig(handleListStorages)
	case CMD_SHOW_HISTORY:
		err = withConfig(handleShowHistory)
	case CMD_BOOT_AGENT:
		err = withConfig(handleBootAgent)
	case CMD_TEST_UPLOAD:
		err = withConfig(handleTestUploadFile)
	}
	if err != nil {
		fmt.Println("Err:", err)
		os.Exit(1)
	}
}

func withConfig(handler func() error) error {
	if err := configAssembly(); err != nil {
		return err
	}
	return handler()
}
