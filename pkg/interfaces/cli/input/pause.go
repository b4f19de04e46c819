package input

import (
	"fmt"
	"io"

	"github.com/eiannone/keyboard"
)

// KeyReader blocks until a single key is pressed
type KeyReader func() error

// ReadKeyboard waits for one key press on the terminal
func ReadKeyboard() error {
	_, _, err := keyboard.GetSingleKey()
	return err
}

// Pause prints a prompt and waits for read to return
func Pause(out io.Writer, read KeyReader) error {
	fmt.Fprint(out, "Press any key to continue")
	err := read()
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}
	return nil
}
