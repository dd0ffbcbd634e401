package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/lexfsm/pkg/adapters/memory"
	contract "github.com/aretw0/lexfsm/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoaderContract(t *testing.T) {
	data := map[string]string{
		"numbers.fsm":  "1 1 0\nstart 0 0\n0\x00\nL 0\n",
		"strings.yaml": "states: [{name: s}]",
	}

	bytesData := make(map[string][]byte)
	for k, v := range data {
		bytesData[k] = []byte(v)
	}

	contract.DescriptionLoaderContractTest(t, memory.NewStore(data), bytesData)
}

func TestStore_StoreContract(t *testing.T) {
	contract.DescriptionStoreContractTest(t, memory.NewStore(nil))
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(nil)

	src := []byte("original")
	require.NoError(t, store.SaveDescription(ctx, "a", src))
	src[0] = 'X'

	got, err := store.GetDescription(ctx, "a")
	require.NoError(t, err)
	got[1] = 'X'

	again, err := store.GetDescription(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "original", string(again))
}

func TestStore_RejectsEmptyName(t *testing.T) {
	assert.Error(t, memory.NewStore(nil).SaveDescription(context.Background(), "", nil))
}
