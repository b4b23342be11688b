//go:build !unix

package preflight

import "os"

func checkReadWrite(path string) error {
	scratch, err := os.CreateTemp(path, ".exifglass-access-*")
	if err != nil {
		return err
	}
	name := scratch.Name()
	_ = scratch.Close()
	return os.Remove(name)
}
