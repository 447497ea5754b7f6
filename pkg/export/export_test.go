package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/brep/pkg/geom"
	"github.com/chazu/brep/pkg/shapes"
	"github.com/chazu/brep/pkg/topo"
)

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

var (
	origin = geom.V(0, 0, 0)
	ex     = geom.V(1, 0, 0)
	ey     = geom.V(0, 1, 0)
	ez     = geom.V(0, 0, 1)
)

func TestGeoSquareGolden(t *testing.T) {
	m := topo.New()
	sq := shapes.Square(m, origin, ex, ey)

	var buf bytes.Buffer
	require.NoError(t, WriteGeo(&buf, m, sq, GeoOptions{Physical: true}))
	newGolden(t).Assert(t, "square_geo", buf.Bytes())
}

func TestDmgSquareGolden(t *testing.T) {
	m := topo.New()
	sq := shapes.Square(m, origin, ex, ey)

	var buf bytes.Buffer
	require.NoError(t, WriteDmg(&buf, m, sq))
	newGolden(t).Assert(t, "square_dmg", buf.Bytes())
}

func TestGeoEllipseWithEmbeddedPointGolden(t *testing.T) {
	m := topo.New()
	disk := shapes.EllipticalDisk(m, origin, geom.V(2, 0, 0), ey)
	m.Embed(disk, m.NewPoint(geom.V(0.5, 0.5, 0), 0.05))

	var buf bytes.Buffer
	require.NoError(t, WriteGeo(&buf, m, disk, GeoOptions{Physical: true}))
	newGolden(t).Assert(t, "ellipse_disk_geo", buf.Bytes())
}

func TestGeoCube(t *testing.T) {
	m := topo.New()
	cube := shapes.Cube(m, origin, ex, ey, ez)

	var buf bytes.Buffer
	require.NoError(t, WriteGeo(&buf, m, cube, GeoOptions{}))
	out := buf.String()

	assert.NotContains(t, out, "Physical", "physical groups are opt-in")
	assert.Equal(t, 8, strings.Count(out, "Point("))
	assert.Equal(t, 12, strings.Count(out, "\nLine("))
	assert.Equal(t, 6, strings.Count(out, "Plane Surface("))
	assert.Equal(t, 6, strings.Count(out, "Line Loop("))
	assert.Equal(t, 1, strings.Count(out, "Surface Loop("))
	assert.True(t, strings.HasSuffix(out, "Volume("+cube.String()+") = {"+m.VolumeShell(cube).String()+"};\n"),
		"the root is written last")

	bottom, err := shapes.CubeFace(m, cube, shapes.CubeBottom)
	require.NoError(t, err)
	assert.Contains(t, out, "Surface Loop("+m.VolumeShell(cube).String()+") = {-"+bottom.String()+",",
		"reverse shell uses are negated")
}

func TestGeoArcsAndSplines(t *testing.T) {
	m := topo.New()
	loop := shapes.Circle(m, origin, ez, ex)
	arc := m.UsedRefs(loop)[0]
	s, err := shapes.SplineThrough(m, []geom.Vec{origin, ex, ey, ez})
	require.NoError(t, err)
	group := m.NewGroup()
	m.AddToGroup(group, arc)
	m.AddToGroup(group, s)

	var buf bytes.Buffer
	require.NoError(t, WriteGeo(&buf, m, group, GeoOptions{Physical: true}))
	out := buf.String()

	e := m.Entity(arc)
	assert.Contains(t, out, "Circle("+arc.String()+") = {"+e.Used[0].Ref.String()+","+e.Helpers[0].String()+","+e.Used[1].Ref.String()+"};\n")
	sp := m.Entity(s)
	assert.Contains(t, out, "Spline("+s.String()+") = {"+sp.Used[0].Ref.String()+","+sp.Helpers[0].String()+","+sp.Helpers[1].String()+","+sp.Used[1].Ref.String()+"};\n")
	assert.Contains(t, out, "Physical Line("+arc.String()+")")
	assert.NotContains(t, out, "Physical Point("+e.Helpers[0].String()+")", "helpers get no physical group")
	assert.NotContains(t, out, "Group", "groups are not written")
}

func TestDmgCube(t *testing.T) {
	m := topo.New()
	cube := shapes.Cube(m, origin, ex, ey, ez)

	var buf bytes.Buffer
	require.NoError(t, WriteDmg(&buf, m, cube))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "1 6 12 8", lines[0])
	assert.Equal(t, "0 0 0", lines[1])
	assert.Equal(t, "0 0 0", lines[2])

	// The volume comes last: its header, one shell of six faces, six members.
	tail := lines[len(lines)-8:]
	assert.Equal(t, cube.String()+" 1", tail[0])
	assert.Equal(t, " 6", tail[1])
	bottom, _ := shapes.CubeFace(m, cube, shapes.CubeBottom)
	top, _ := shapes.CubeFace(m, cube, shapes.CubeTop)
	assert.Equal(t, "  "+bottom.String()+" 0", tail[2])
	assert.Equal(t, "  "+top.String()+" 1", tail[3])
}

func TestWriteRejects(t *testing.T) {
	m := topo.New()
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteGeo(&buf, m, 42, GeoOptions{}), topo.ErrNotFound)
	assert.ErrorIs(t, WriteDmg(&buf, m, 42), topo.ErrNotFound)

	bad := m.NewEntity(topo.KindArc)
	m.AddUse(bad, topo.Forward, m.NewPointDefault(origin))
	assert.ErrorIs(t, WriteGeo(&buf, m, bad, GeoOptions{}), topo.ErrPrecondition)
	assert.ErrorIs(t, WriteDmg(&buf, m, bad), topo.ErrPrecondition)

	face := shapes.Square(m, origin, ex, ey)
	m.Embed(face, m.NewLoop())
	assert.ErrorIs(t, WriteGeo(&buf, m, face, GeoOptions{}), topo.ErrPrecondition)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"geo", FormatGeo, true},
		{".GEO", FormatGeo, true},
		{"dmg", FormatDmg, true},
		{"stl", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, ".dmg", FormatDmg.Ext())
	assert.Equal(t, "Format(7)", Format(7).String())
}

func TestWriteFile(t *testing.T) {
	m := topo.New()
	sq := shapes.Square(m, origin, ex, ey)
	dir := t.TempDir()

	path := filepath.Join(dir, "square.dmg")
	require.NoError(t, WriteFile(path, m, sq, FormatDmg, GeoOptions{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "0 1 4 4\n"))

	assert.Error(t, WriteFile(filepath.Join(dir, "missing", "x.geo"), m, sq, FormatGeo, GeoOptions{}))
	assert.Error(t, Write(&bytes.Buffer{}, m, sq, Format(9), GeoOptions{}))
}
