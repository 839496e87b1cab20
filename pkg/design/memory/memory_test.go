package memory

import (
	"testing"

	"github.com/matzehuels/slotcraft/pkg/design"
	"github.com/matzehuels/slotcraft/pkg/design/designtest"
)

func TestStore(t *testing.T) {
	designtest.Run(t, func(t *testing.T) design.Store { return New() })
}
