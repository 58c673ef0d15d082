package memstore

import (
	"testing"

	"github.com/hyperifyio/tinyteacher/internal/store/storetest"
)

func TestMemStore(t *testing.T) {
	storetest.Run(t, New())
}
