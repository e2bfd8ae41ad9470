package gen

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

var Module = fx.Module("gen", fx.Provide(NewNode))

// NewNode builds the snowflake node used for store-assigned entity ids.
func NewNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
