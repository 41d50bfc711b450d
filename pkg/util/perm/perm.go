package perm

import (
	"fmt"
	"os"
)

// CheckNotWritableByOthers rejects files that group or other may write.
// A writable key file lets another user substitute the recipient key.
func CheckNotWritableByOthers(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := st.Mode().Perm()
	if mode&0o022 != 0 {
		return fmt.Errorf("file %s permissions %o (must not be group/world writable)", path, mode)
	}
	return nil
}
