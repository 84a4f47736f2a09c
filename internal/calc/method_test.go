package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupMethod(t *testing.T) {
	tests := []struct {
		in   string
		want MethodID
	}{
		{"MWL", MWL},
		{"mwl", MWL},
		{" ISNA ", ISNA},
		{"Makkah", Makkah},
		{"UmmAlQura", Makkah},
		{"Umm-al-Qura", Makkah},
		{"Egyptian", Egypt},
		{"4", Makkah},
		{"0", Jafari},
		{"23", Jordan},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := LookupMethod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.ID)
		})
	}
}

func TestLookupMethod_Unknown(t *testing.T) {
	for _, in := range []string{"", "6", "15", "99", "Moonsighting", "Custom"} {
		_, err := LookupMethod(in)
		assert.ErrorIs(t, err, ErrUnknownMethod, in)
	}
}

func TestMethods_RegistryIsImmutable(t *testing.T) {
	list := Methods()
	require.Len(t, list, 22)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].AladhanID, list[i].AladhanID)
	}

	list[0].FajrAngle = 99
	m, err := LookupMethod("Jafari")
	require.NoError(t, err)
	assert.Equal(t, 16.0, m.FajrAngle)
	assert.Equal(t, 16.0, Methods()[0].FajrAngle)
}

func TestMethods_Definitions(t *testing.T) {
	for _, m := range Methods() {
		t.Run(string(m.ID), func(t *testing.T) {
			assert.Greater(t, m.FajrAngle, 0.0)
			assert.False(t, m.Isha.IsZero(), "every method defines Isha")
			assert.NotEmpty(t, m.Name)

			byID, ok := MethodByAladhanID(m.AladhanID)
			require.True(t, ok)
			assert.Equal(t, m, byID)
		})
	}

	mk, _ := LookupMethod("Makkah")
	assert.True(t, mk.Isha.IsMinutes())
	assert.Equal(t, 90, mk.Isha.Minutes)
	assert.Equal(t, "90 min", mk.Isha.String())

	eg, _ := LookupMethod("Egypt")
	assert.False(t, eg.Isha.IsMinutes())
	assert.Equal(t, "17.5°", eg.Isha.String())

	_, ok := MethodByAladhanID(15)
	assert.False(t, ok)
}

func TestLookupMadhab(t *testing.T) {
	tests := []struct {
		in   string
		want Madhab
	}{
		{"Standard", Standard},
		{"shafi", Standard},
		{"Maliki", Standard},
		{"hanbali", Standard},
		{"0", Standard},
		{"HANAFI", Hanafi},
		{"1", Hanafi},
	}
	for _, tt := range tests {
		got, err := LookupMadhab(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := LookupMadhab("2")
	assert.ErrorIs(t, err, ErrUnknownMadhab)
}

func TestMadhab(t *testing.T) {
	assert.Equal(t, 1.0, Standard.ShadowFactor())
	assert.Equal(t, 2.0, Hanafi.ShadowFactor())
	assert.Equal(t, 0, Standard.School())
	assert.Equal(t, 1, Hanafi.School())
	assert.Equal(t, "Hanafi", Hanafi.String())
	assert.Equal(t, "Madhab(7)", Madhab(7).String())
}
