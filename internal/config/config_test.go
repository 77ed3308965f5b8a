package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/dogecustody/internal/config"
	"github.com/tdex-network/dogecustody/pkg/network"
)

func TestInitConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		datadir := t.TempDir()
		t.Setenv("CUSTODY_DATADIR", datadir)
		t.Setenv("CUSTODY_SECRET_PASSWORD_FILE", filepath.Join(datadir, "pwd"))

		require.NoError(t, config.InitConfig())
		require.Equal(t, &network.Dogecoin, config.GetNetwork())
		require.Equal(t, 9090, config.GetInt(config.HTTPListeningPortKey))
		require.Equal(t, "0.1", config.GetOperatorFeeFraction().String())
		require.Zero(t, config.GetUint64(config.NetworkFeeKey))
		require.Equal(t, 30*time.Second, config.GetDuration(config.RequestTimeoutKey))
		require.Equal(t, filepath.Join(datadir, "secret"), config.GetSecretFile())
		require.Equal(t, filepath.Join(datadir, "db"), config.GetDBDir())

		_, err := os.Stat(filepath.Join(datadir, "db"))
		require.NoError(t, err)
	})

	t.Run("custom", func(t *testing.T) {
		datadir := t.TempDir()
		t.Setenv("CUSTODY_DATADIR", datadir)
		t.Setenv("CUSTODY_NETWORK", "testnet")
		t.Setenv("CUSTODY_EXPLORER_URL", "http://localhost:3000")
		t.Setenv("CUSTODY_MNEMONIC", "abandon about")
		t.Setenv("CUSTODY_DB_TYPE", "inmemory")
		t.Setenv("CUSTODY_OPERATOR_FEE_FRACTION", "0.025")
		t.Setenv("CUSTODY_NETWORK_FEE", "100000")
		t.Setenv("CUSTODY_REQUEST_TIMEOUT", "5s")

		require.NoError(t, config.InitConfig())
		require.Equal(t, &network.Testnet, config.GetNetwork())
		require.Equal(t, "0.025", config.GetOperatorFeeFraction().String())
		require.Equal(t, uint64(100000), config.GetUint64(config.NetworkFeeKey))
		require.Equal(t, 5*time.Second, config.GetDuration(config.RequestTimeoutKey))
		require.Empty(t, config.GetDBDir())
	})

	t.Run("master key", func(t *testing.T) {
		t.Setenv("CUSTODY_DATADIR", t.TempDir())
		t.Setenv("CUSTODY_MASTER_KEY", "dgpv51eADS3spNJh8")

		require.NoError(t, config.InitConfig())
		require.Equal(t, "dgpv51eADS3spNJh8", config.GetString(config.MasterKeyKey))
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			env  map[string]string
		}{
			{"missing secret", map[string]string{}},
			{"unknown network", map[string]string{"CUSTODY_NETWORK": "litecoin"}},
			{"testnet without explorer", map[string]string{"CUSTODY_NETWORK": "testnet"}},
			{"unknown db", map[string]string{"CUSTODY_DB_TYPE": "postgres"}},
			{"fee fraction too high", map[string]string{"CUSTODY_OPERATOR_FEE_FRACTION": "1"}},
			{"negative fee fraction", map[string]string{"CUSTODY_OPERATOR_FEE_FRACTION": "-0.1"}},
			{"unknown rate provider", map[string]string{"CUSTODY_RATE_PROVIDER": "kraken"}},
			{"eth key without node", map[string]string{"CUSTODY_ETH_PRIVATE_KEY": "aa"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv("CUSTODY_DATADIR", t.TempDir())
				if tt.name != "missing secret" {
					t.Setenv("CUSTODY_MNEMONIC", "abandon about")
				}
				for k, v := range tt.env {
					t.Setenv(k, v)
				}
				require.Error(t, config.InitConfig())
			})
		}
	})
}
