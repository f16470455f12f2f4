package securefile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastKDF = KDFParams{ArgonTime: 1, ArgonMemory: 1024, ArgonThreads: 1, ArgonKeyLen: 32}

func TestSealOpen(t *testing.T) {
	env, err := Seal([]byte("secret"), []byte("pw"), []byte("aad"), fastKDF)
	require.NoError(t, err)
	assert.Equal(t, envelopeVersion, env.Version)
	assert.Equal(t, fastKDF, env.KDFParams)

	plain, err := Open(env, []byte("pw"), []byte("aad"))
	require.NoError(t, err)
	assert.Equal(t, "secret", string(plain))
}

func TestOpenRejectsWrongPasswordAndAAD(t *testing.T) {
	env, err := Seal([]byte("secret"), []byte("pw"), []byte("aad"), fastKDF)
	require.NoError(t, err)

	_, err = Open(env, []byte("nope"), []byte("aad"))
	assert.ErrorIs(t, err, ErrInvalidPasswordOrCorrupt)

	_, err = Open(env, []byte("pw"), []byte("other"))
	assert.ErrorIs(t, err, ErrInvalidPasswordOrCorrupt)
}

func TestEmptyPassword(t *testing.T) {
	_, err := Seal([]byte("x"), nil, nil, fastKDF)
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = Open(Envelope{Version: envelopeVersion}, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestEnvelopeJSONIsFlat(t *testing.T) {
	env, err := Seal([]byte("secret"), []byte("pw"), nil, fastKDF)
	require.NoError(t, err)

	b, err := json.Marshal(env)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Contains(t, m, "argon_memory_kib")
	assert.Contains(t, m, "ct_b64")
}

func TestWriteJSONAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "file.json")

	require.NoError(t, WriteJSON(path, map[string]int{"a": 1}, 0o600, 0o700))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestConfigPathCandidatesPrefersSnapHome(t *testing.T) {
	t.Setenv("SNAP_REAL_HOME", "/snap/home")
	t.Setenv("HOME", "/home/user")

	paths, err := ConfigPathCandidates("caviar", "wallet.json")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(paths), 2)
	assert.Equal(t, filepath.Join("/snap/home", ".config", "caviar", "wallet.json"), paths[0])
	assert.Equal(t, filepath.Join("/home/user", ".config", "caviar", "wallet.json"), paths[1])

	_, err = ConfigPathCandidates("", "wallet.json")
	assert.Error(t, err)
}
