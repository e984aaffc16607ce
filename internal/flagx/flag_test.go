package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	got := FilterArgs([]string{"-a", "http://host", "-x", "junk", "-d", "db.sqlite"}, []string{"-a", "-d"})
	require.Equal(t, []string{"-a", "http://host", "-d", "db.sqlite"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	got := FilterArgs([]string{"--config=conf.json", "--other=1"}, []string{"--config"})
	require.Equal(t, []string{"--config=conf.json"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	got := FilterArgs([]string{"-a", "-d", "db.sqlite"}, []string{"-a", "-d"})
	require.Equal(t, []string{"-a", "-d", "db.sqlite"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	require.Empty(t, FilterArgs(nil, []string{"-a"}))
	require.Empty(t, FilterArgs([]string{"-x", "1"}, []string{"-a"}))
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"brewlog", "-c", "conf.json"}
	require.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"brewlog", "-config", "other.json"}
	require.Equal(t, "other.json", JsonConfigFlags())

	os.Args = []string{"brewlog"}
	require.Equal(t, "", JsonConfigFlags())
}
