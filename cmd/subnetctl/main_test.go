package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/subnets/internal/api"
	"github.com/edvin/subnets/internal/config"
	"github.com/edvin/subnets/internal/core"
	"github.com/edvin/subnets/internal/model"
	"github.com/edvin/subnets/internal/store/filestore"
	"github.com/edvin/subnets/internal/subnet"
)

func startAPI(t *testing.T) string {
	t.Helper()
	store, err := filestore.Open(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	alloc, err := subnet.NewAllocator(subnet.DefaultBase)
	require.NoError(t, err)
	svc := core.NewProjectService(store, alloc, model.DefaultCatalog(), nil, zerolog.Nop())

	srv := httptest.NewServer(api.NewServer(zerolog.Nop(), svc, &config.Config{}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", server}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_CreateListUpdateDelete(t *testing.T) {
	server := startAPI(t)

	out, err := run(t, server, "list")
	require.NoError(t, err)
	assert.Equal(t, "No projects\n", out)

	out, err = run(t, server, "next")
	require.NoError(t, err)
	assert.Equal(t, "172.16.1.0/24\n", out)

	out, err = run(t, server, "--json", "create", "--name", "alpha", "--provider", "AWS")
	require.NoError(t, err)
	var alpha model.Project
	require.NoError(t, json.Unmarshal([]byte(out), &alpha))
	assert.Equal(t, "172.16.1.0/24", alpha.Subnet)
	assert.Equal(t, model.StatusInProgress, alpha.Status)

	out, err = run(t, server, "create", "--name", "beta", "--provider", "OVH", "--status", "Production")
	require.NoError(t, err)
	assert.Contains(t, out, "172.16.2.0/24")

	out, err = run(t, server, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))

	out, err = run(t, server, "update", alpha.ID, "--status", "Decommissioned")
	require.NoError(t, err)
	assert.Contains(t, out, "Decommissioned")
	assert.Contains(t, out, "172.16.1.0/24")

	out, err = run(t, server, "delete", alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deleted project "+alpha.ID+"\n", out)

	_, err = run(t, server, "get", alpha.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestCLI_Errors(t *testing.T) {
	server := startAPI(t)

	_, err := run(t, server, "create", "--name", "alpha")
	assert.EqualError(t, err, "--name and --provider are required")

	_, err = run(t, server, "update", "some-id")
	assert.ErrorContains(t, err, "nothing to update")

	_, err = run(t, server, "delete", "missing")
	assert.EqualError(t, err, "project missing not found")

	_, err = run(t, server, "create", "--name", "alpha", "--provider", "GCP")
	assert.ErrorContains(t, err, "unknown provider")
}

func TestCLI_Catalog(t *testing.T) {
	server := startAPI(t)

	out, err := run(t, server, "catalog")
	require.NoError(t, err)
	assert.Equal(t, "Statuses:  In Progress, Production, Decommissioned\nProviders: AWS, OVH, CloudAvenue\n", out)
}

func TestCLI_ServerFromEnv(t *testing.T) {
	t.Setenv("SUBNETS_API_URL", "http://example.invalid:9999")

	cmd := newRootCmd()
	assert.Equal(t, "http://example.invalid:9999", cmd.PersistentFlags().Lookup("server").DefValue)
}
