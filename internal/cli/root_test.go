package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const erc20ABI = `[
	{"type":"constructor","inputs":[{"name":"supply","type":"uint256"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"balanceOf","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"event","name":"Transfer","inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}],"anonymous":false}
]`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newProject lays out a project with solc output for Token and StandardToken
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bindgen.toml"), `
package = "org.web3j"

[source_sets.main]
src = "solidity/build"
`)
	for _, name := range []string{"Token", "StandardToken"} {
		writeFile(t, filepath.Join(root, "solidity", "build", name+".abi"), erc20ABI)
		writeFile(t, filepath.Join(root, "solidity", "build", name+".bin"), "6080604052348015600f57600080fd5b50")
	}
	return root
}

func wrapper(root, contract string) string {
	return filepath.Join(root, "build", "generated", "sources", "bindgen", "main", "go", "org", "web3j", contract+".go")
}

func execute(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--project-root", root))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate_ExcludedContracts(t *testing.T) {
	root := newProject(t)

	out, err := execute(t, root, "generate", "--exclude", "Token")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Success")
	assert.FileExists(t, wrapper(root, "StandardToken"))
	assert.NoFileExists(t, wrapper(root, "Token"))

	code, err := os.ReadFile(wrapper(root, "StandardToken"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "package web3j")

	out, err = execute(t, root, "generate", "--exclude", "Token")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Up To Date")
}

func TestGenerate_IncludedContracts(t *testing.T) {
	root := newProject(t)

	out, err := execute(t, root, "generate", "--include", "StandardToken", "--exclude", "StandardToken")
	require.NoError(t, err, out)
	assert.FileExists(t, wrapper(root, "StandardToken"))
	assert.NoFileExists(t, wrapper(root, "Token"))

	out, err = execute(t, root, "generate", "--include", "StandardToken", "--exclude", "StandardToken")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Up To Date")
}

func TestGenerate_UnknownIncludedContract(t *testing.T) {
	root := newProject(t)

	_, err := execute(t, root, "generate", "--include", "StandardTokn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "StandardTokn")
	assert.NoFileExists(t, wrapper(root, "StandardToken"))
}

func TestGenerate_MalformedArtifactFailsRun(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "solidity", "build", "Broken.abi"), `[{"type":"function","name":"x"`)

	out, err := execute(t, root, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
	assert.Contains(t, out, "Failed")
	assert.FileExists(t, wrapper(root, "Token"))
	assert.FileExists(t, wrapper(root, "StandardToken"))

	// Failed runs are never cached
	_, err = execute(t, root, "generate")
	require.Error(t, err)
}

func TestGenerate_UndecodableForgeArtifactFailsRun(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "solidity", "build", "Broken.sol", "Broken.json"), `{"abi": [{"type":"function"`)

	out, err := execute(t, root, "generate", "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")

	var parsed struct {
		SourceSets []struct {
			Outcome   string `json:"outcome"`
			Generated []struct {
				ContractName string `json:"contractName"`
			} `json:"generated"`
			Errors []string `json:"errors"`
		} `json:"sourceSets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed), out)
	require.Len(t, parsed.SourceSets, 1)
	run := parsed.SourceSets[0]
	assert.Equal(t, "FAILED", run.Outcome)
	assert.Len(t, run.Generated, 2)
	require.Len(t, run.Errors, 1)
	assert.Contains(t, run.Errors[0], "Broken")
	assert.FileExists(t, wrapper(root, "Token"))
	assert.FileExists(t, wrapper(root, "StandardToken"))
	assert.NoFileExists(t, wrapper(root, "Broken"))

	out, err = execute(t, root, "status")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Stale")
	assert.Contains(t, out, "previous run failed")
}

func TestGenerate_SharedOutputAcrossSourceSets(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bindgen.toml"), `
package = "org.web3j.test"
output = "gen"

[source_sets.main]
src = "main-out"

[source_sets.test]
src = "test-out"
`)
	writeFile(t, filepath.Join(root, "main-out", "Token.abi"), erc20ABI)
	writeFile(t, filepath.Join(root, "test-out", "Token.abi"), `[{"type":"function","name":"mint","inputs":[],"outputs":[],"stateMutability":"nonpayable"}]`)

	out, err := execute(t, root, "generate")
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(root, "gen", "main", "org", "web3j", "test", "Token.go"))
	assert.FileExists(t, filepath.Join(root, "gen", "test", "org", "web3j", "test", "Token.go"))

	out, err = execute(t, root, "generate")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Source set main: Up To Date")
	assert.Contains(t, out, "Source set test: Up To Date")
	assert.NotContains(t, out, "Success")
}

func TestGenerate_JSONAndReport(t *testing.T) {
	root := newProject(t)
	report := filepath.Join(root, "build", "bindgen-report.yaml")

	out, err := execute(t, root, "generate", "--json", "--report", report)
	require.NoError(t, err, out)

	var parsed struct {
		SourceSets []struct {
			SourceSet string `json:"sourceSet"`
			Outcome   string `json:"outcome"`
			Generated []struct {
				ContractName string `json:"contractName"`
			} `json:"generated"`
		} `json:"sourceSets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	require.Len(t, parsed.SourceSets, 1)
	assert.Equal(t, "main", parsed.SourceSets[0].SourceSet)
	assert.Equal(t, "SUCCESS", parsed.SourceSets[0].Outcome)
	assert.Len(t, parsed.SourceSets[0].Generated, 2)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var fromYAML map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Contains(t, fromYAML, "generatorVersion")
	assert.Contains(t, fromYAML, "sourceSets")
}

func TestStatusListClean(t *testing.T) {
	root := newProject(t)

	out, err := execute(t, root, "status")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Stale")

	_, err = execute(t, root, "generate")
	require.NoError(t, err)

	out, err = execute(t, root, "status")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Fresh")

	out, err = execute(t, root, "list", "--exclude", "Token")
	require.NoError(t, err, out)
	assert.Contains(t, out, "StandardToken")
	assert.Contains(t, out, "filter: exclude")

	out, err = execute(t, root, "clean")
	require.NoError(t, err, out)
	assert.Contains(t, out, "removed 2 wrapper(s)")
	assert.NoFileExists(t, wrapper(root, "Token"))
	assert.NoFileExists(t, wrapper(root, "StandardToken"))
}

func TestUnknownSourceSet(t *testing.T) {
	root := newProject(t)

	_, err := execute(t, root, "generate", "--source-set", "integration")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source set")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "treb-bindgen version")
}
