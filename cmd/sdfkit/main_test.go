package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/sdfkit/pkg/config"
	"github.com/chazu/sdfkit/pkg/kernel/sdfx"
)

const ballScript = `(part "ball" (sphere 1) :bounds 1.5 :resolution 0.1)`

const twoPartScript = `
(part "ball" (sphere 1) :bounds 1.5 :resolution 0.25)
(part "cube" (translate (vec3 3 0 0) (box 1))
  :lower (vec3 2 -1 -1) :upper (vec3 4 1 1) :resolution 0.25)
`

// execute runs the command tree with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMeshOFF(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "ball.sdf", ballScript)
	out := filepath.Join(dir, "ball.off")

	stdout, err := execute(t, "mesh", script, "-o", out)
	require.NoError(t, err)
	assert.Equal(t, out+"\n", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "OFF"), "unexpected header %q", string(data[:min(len(data), 16)]))
}

func TestMeshOnePerPart(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "scene.sdf", twoPartScript)
	out := filepath.Join(dir, "scene.stl")

	_, err := execute(t, "mesh", script, "-o", out)
	require.NoError(t, err)
	for _, name := range []string{"scene-ball.stl", "scene-cube.stl"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size(), name)
	}
	assert.NoFileExists(t, out)
}

func TestMeshSinglePartSelection(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "scene.sdf", twoPartScript)
	out := filepath.Join(dir, "cube.stl")

	_, err := execute(t, "mesh", script, "-o", out, "--part", "cube")
	require.NoError(t, err)
	assert.FileExists(t, out)

	_, err = execute(t, "mesh", script, "-o", out, "--part", "wheel")
	assert.ErrorContains(t, err, `no part named "wheel"`)
}

func TestMeshSdfxKernel(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "ball.sdf", ballScript)
	out := filepath.Join(dir, "ball.off")

	_, err := execute(t, "mesh", script, "-o", out, "--kernel", "sdfx")
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "OFF"))
}

func TestNewKernelCarriesIso(t *testing.T) {
	c := config.Default()
	c.Extract.Kernel = "sdfx"
	c.Extract.Iso = 0.2
	k, err := newKernel(c)
	require.NoError(t, err)
	require.IsType(t, &sdfx.SdfxKernel{}, k)
	assert.Equal(t, 0.2, k.(*sdfx.SdfxKernel).Iso)
}

func TestMeshJSON(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "scene.sdf", twoPartScript)

	stdout, err := execute(t, "mesh", script, "--json", "-o", "-")
	require.NoError(t, err)

	var doc struct {
		Meshes []struct {
			PartName string `json:"partName"`
			Color    string `json:"color"`
		} `json:"meshes"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Meshes, 2)
	assert.Equal(t, "ball", doc.Meshes[0].PartName)
	assert.Equal(t, "cube", doc.Meshes[1].PartName)
	assert.NotEmpty(t, doc.Meshes[0].Color)
}

func TestMeshErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "ball.sdf", ballScript)
	bad := writeFile(t, dir, "bad.sdf", `(part "x" (sphere :bogus 1))`)
	empty := writeFile(t, dir, "empty.sdf", ";; nothing here\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown format", []string{"mesh", good, "-o", filepath.Join(dir, "out.obj")}, "unsupported format"},
		{"script error", []string{"mesh", bad, "-o", filepath.Join(dir, "out.stl")}, "bad.sdf"},
		{"trace reports keyword", []string{"trace", bad}, "unknown keyword :bogus"},
		{"no parts", []string{"mesh", empty, "-o", filepath.Join(dir, "out.stl")}, "declares no parts"},
		{"missing script", []string{"mesh", filepath.Join(dir, "nope.sdf")}, "no such file"},
		{"unknown kernel", []string{"mesh", good, "--kernel", "voxels"}, "extract.kernel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRenderWithConfig(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "ball.sdf", ballScript)
	cfgPath := writeFile(t, dir, "sdfkit.yaml", `
render:
  width: 32
  height: 24
  eye: [0, 0, 5]
trace:
  max_t: 20
  max_iterations: 64
`)

	for _, mode := range []string{"shaded", "depth", "heat"} {
		t.Run(mode, func(t *testing.T) {
			out := filepath.Join(dir, mode+".png")
			_, err := execute(t, "render", script, "-c", cfgPath, "-o", out, "--mode", mode)
			require.NoError(t, err)

			f, err := os.Open(out)
			require.NoError(t, err)
			defer f.Close()
			img, err := png.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, 32, img.Bounds().Dx())
			assert.Equal(t, 24, img.Bounds().Dy())
		})
	}

	out := filepath.Join(dir, "smooth.bmp")
	_, err := execute(t, "render", script, "-c", cfgPath, "-o", out, "--fxaa")
	require.NoError(t, err)
	assert.FileExists(t, out)

	_, err = execute(t, "render", script, "-c", cfgPath, "-o", filepath.Join(dir, "x.png"), "--mode", "xray")
	assert.ErrorContains(t, err, "unknown render mode")

	_, err = execute(t, "render", script, "-c", cfgPath, "-o", filepath.Join(dir, "x.png"), "--mode", "depth", "--fxaa")
	assert.ErrorContains(t, err, "shaded images only")
}

func TestTrace(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "ball.sdf", ballScript)

	stdout, err := execute(t, "trace", script, "--origin", "0,0,5", "--dir", "0,0,-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hit:        true")
	assert.Contains(t, stdout, `node:       sphere "ball"`)

	stdout, err = execute(t, "trace", script, "--origin", "0,5,5", "--dir", "0,0,-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hit:        false")

	_, err = execute(t, "trace", script, "--dir", "0,0")
	assert.ErrorContains(t, err, "three components")

	_, err = execute(t, "trace", script, "--dir", "0,0,0")
	assert.ErrorContains(t, err, "must not be zero")
}

func TestPartPath(t *testing.T) {
	assert.Equal(t, "out.stl", partPath("out.stl", "a", 1))
	assert.Equal(t, "dir/out-a.stl", partPath("dir/out.stl", "a", 2))
	assert.Equal(t, "out-a", partPath("out", "a", 3))
}
