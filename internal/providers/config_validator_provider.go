package providers

import (
	"fmt"
	"personad/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %w", v.Errors)
	}

	st := c.conf.Storage
	if (st.Driver == "file" || st.Driver == "sqlite") && st.Path == "" {
		return fmt.Errorf("invalid configuration: storage.path is required for driver %q", st.Driver)
	}
	if c.conf.Chat.FavoriteChance < 0 || c.conf.Chat.FavoriteChance > 1 {
		return fmt.Errorf("invalid configuration: chat.favoriteChance must be within [0,1]")
	}
	return nil
}
