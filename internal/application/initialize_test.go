package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/credstash/internal/adapter/driven/crypto"
	"github.com/ericfisherdev/credstash/internal/domain/model"
)

func TestInitialize_FirstRun(t *testing.T) {
	codec := crypto.NewCodec()
	dataFile := &memFile{}
	storeEnv := NewEnvelope(codec, dataFile)
	gate, loginFile := newTestGate(t)

	require.NoError(t, Initialize(storeEnv, gate, "correct horse"))

	store := NewCredentialStore(storeEnv)
	require.NoError(t, store.Load())
	assert.Equal(t, 0, store.Len())
	assert.NoError(t, gate.Verify("correct horse"))
	assert.NotEqual(t, dataFile.key, loginFile.key, "data and login keys must differ")
}

func TestInitialize_RefusesExistingStore(t *testing.T) {
	storeEnv := NewEnvelope(crypto.NewCodec(), &memFile{})
	require.NoError(t, storeEnv.Create([]byte("[]")))
	gate, loginFile := newTestGate(t)

	err := Initialize(storeEnv, gate, "correct horse")

	assert.ErrorIs(t, err, model.ErrAlreadyInitialized)
	assert.Nil(t, loginFile.blob)
}

func TestInitialize_ShortSecretWritesNothing(t *testing.T) {
	dataFile := &memFile{}
	gate, _ := newTestGate(t)

	err := Initialize(NewEnvelope(crypto.NewCodec(), dataFile), gate, "short")

	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Nil(t, dataFile.blob)
	assert.Nil(t, dataFile.key)
}

func TestInitialize_RetryAfterLoginWriteFailure(t *testing.T) {
	storeEnv := NewEnvelope(crypto.NewCodec(), &memFile{})
	gate, loginFile := newTestGate(t)
	loginFile.writeErr = errDiskFull

	err := Initialize(storeEnv, gate, "correct horse")
	assert.ErrorIs(t, err, errDiskFull)

	exists, err := storeEnv.Exists()
	require.NoError(t, err)
	assert.False(t, exists, "store must not exist without a login secret")

	loginFile.writeErr = nil
	require.NoError(t, Initialize(storeEnv, gate, "correct horse"))
	assert.NoError(t, gate.Verify("correct horse"))
	require.NoError(t, NewCredentialStore(storeEnv).Load())
}

func TestInitialize_RetryAfterStoreWriteFailure(t *testing.T) {
	dataFile := &memFile{writeErr: errDiskFull}
	storeEnv := NewEnvelope(crypto.NewCodec(), dataFile)
	gate, _ := newTestGate(t)

	assert.ErrorIs(t, Initialize(storeEnv, gate, "correct horse"), errDiskFull)

	dataFile.writeErr = nil
	require.NoError(t, Initialize(storeEnv, gate, "battery staple"))
	assert.NoError(t, gate.Verify("battery staple"))
	require.NoError(t, NewCredentialStore(storeEnv).Load())
}
