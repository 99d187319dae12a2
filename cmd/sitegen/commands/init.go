package commands

import (
	"fmt"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration files"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	written, err := config.Init(root.Root, i.Force)
	for _, path := range written {
		fmt.Printf("Wrote %s\n", path)
	}
	return err
}
