package memory_test

import (
	"testing"

	"github.com/arborui/arbor/pkg/adapters/memory"
	"github.com/arborui/arbor/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}
