package servicemocks

import (
	"os"
)

func WriteTempFile(name, content string) (string, func(), error) {
	file, err := os.CreateTemp("", name)
	if err != nil {
		return "", nil, err
	}

	err = os.WriteFile(file.Name(), []byte(content), 0600)

	return file.Name(), func() { os.Remove(file.Name()) }, err
}
