package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCheck_Default(t *testing.T) {
	useConfig(t)

	out, err := runCmd(t, catalogCheckCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "catalog 2024.1: 4 regions")
	assert.NotContains(t, out, "warning")
}

func TestCatalogCheck_Duplicate(t *testing.T) {
	useConfig(t)
	path := writeFile(t, "catalog.yaml", `
version: dup
regions:
  - name: EGE
    projects: [OLTAN GIDA]
  - name: MARMARA
    projects: [oltan gıda]
`)

	_, err := runCmd(t, catalogCheckCmd, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OLTAN GIDA")
}

func TestCatalogCheck_UnplacedStrict(t *testing.T) {
	useConfig(t)
	path := writeFile(t, "catalog.yaml", `
version: unplaced
regions:
  - name: EGE
    projects: [ACME İZMİR]
rules:
  - match: ACME
    fallback_excludes: true
    branches:
      - city: İZMİR
        result: ACME İZMİR
      - city: MANİSA
        result: ACME MANİSA
`)

	out, err := runCmd(t, catalogCheckCmd, path)
	require.NoError(t, err)
	assert.Contains(t, out, `warning: split result "ACME MANİSA"`)

	require.NoError(t, catalogCheckCmd.Flags().Set("strict", "true"))
	t.Cleanup(func() { _ = catalogCheckCmd.Flags().Set("strict", "false") })
	_, err = runCmd(t, catalogCheckCmd, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 unplaced")
}
