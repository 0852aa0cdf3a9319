package dvar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modlauncher/internal/dvar"
)

func TestParseValidatesKinds(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "ai_disableSpawn", raw: "true", want: "1"},
		{name: "ai_disableSpawn", raw: "off", want: "0"},
		{name: "ai_disableSpawn", raw: "maybe", wantErr: true},
		{name: "developer", raw: "2", want: "2"},
		{name: "developer", raw: "3", wantErr: true},
		{name: "developer", raw: "-1", wantErr: true},
		{name: "logfile", raw: "one", wantErr: true},
		{name: "g_password", raw: "  hunter2 ", want: "hunter2"},
	}
	for _, tc := range cases {
		t.Run(tc.name+"="+tc.raw, func(t *testing.T) {
			_, v, err := dvar.ParseNamed(tc.name, tc.raw)
			if tc.wantErr {
				assert.ErrorIs(t, err, dvar.ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.String())
		})
	}
}

func TestParseNamedUnknown(t *testing.T) {
	_, _, err := dvar.ParseNamed("sv_cheats", "1")
	assert.ErrorIs(t, err, dvar.ErrUnknown)
}

func TestLookupIgnoresCase(t *testing.T) {
	def, ok := dvar.Lookup("SPLITSCREEN_PLAYERCOUNT")
	require.True(t, ok)
	assert.Equal(t, "splitscreen_playerCount", def.Name)
	assert.Equal(t, dvar.KindInt, def.Kind)
}

func TestValueAccessorsMatchKind(t *testing.T) {
	b, ok := dvar.BoolValue(true).Bool()
	assert.True(t, ok)
	assert.True(t, b)
	_, ok = dvar.BoolValue(true).Int()
	assert.False(t, ok)

	n, ok := dvar.IntValue(2).Int()
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	s, ok := dvar.StringValue("zm").Text()
	assert.True(t, ok)
	assert.Equal(t, "zm", s)
}

func TestRunArgs(t *testing.T) {
	dev, _ := dvar.Lookup("developer")
	gametype, _ := dvar.Lookup("set_gametype")
	password, _ := dvar.Lookup("g_password")
	spawn, _ := dvar.Lookup("ai_disableSpawn")

	args := dvar.RunArgs([]dvar.Assignment{
		{Def: dev, Value: dvar.IntValue(1)},
		{Def: password, Value: dvar.StringValue("")},
		{Def: gametype, Value: dvar.StringValue("zclassic")},
		{Def: spawn, Value: dvar.BoolValue(false)},
	})
	assert.Equal(t, []string{
		"+set", "developer", "1",
		"+set_gametype", "zclassic",
		"+set", "ai_disableSpawn", "0",
	}, args)
}

func TestDefinitionsReturnsCopy(t *testing.T) {
	defs := dvar.Definitions()
	require.NotEmpty(t, defs)
	defs[0].Name = "changed"
	assert.NotEqual(t, "changed", dvar.Definitions()[0].Name)
}
