package util

import (
	"bytes"
	"github.com/hetianyi/gox/file"
	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"io"
	"path/filepath"
)

// LoadConfig loads config from config file.
func LoadConfig(c string, container interface{}) error {
	path, err := homedir.Expand(c)
	if err != nil {
		return err
	}
	cf, err := file.GetFile(path)
	if err != nil {
		return err
	}
	defer cf.Close()
	var buffer bytes.Buffer
	_, err = io.Copy(&buffer, cf)
	if err != nil {
		return err
	}
	return json.Unmarshal(buffer.Bytes(), container)
}

// WriteConfig writes config to file.
func WriteConfig(c string, container interface{}) error {
	path, err := homedir.Expand(c)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); !file.Exists(dir) {
		if err := file.CreateDirs(dir); err != nil {
			return err
		}
	}
	bs, err := json.MarshalIndent(container, "", "  ")
	if err != nil {
		return err
	}
	cf, err := file.CreateFile(path)
	if err != nil {
		return err
	}
	defer cf.Close()
	_, err = cf.Write(bs)
	return err
}
