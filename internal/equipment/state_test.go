package equipment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/armazem/internal/model"
)

func strPtr(s string) *string { return &s }

func exactlyOneSet(t *testing.T, e model.Equipment) {
	t.Helper()
	assert.True(t, (e.Local == nil) != (e.Observation == nil),
		"exactly one of local/observation must be set, got local=%v observation=%v", e.Local, e.Observation)
}

func TestTransitionsKeepFieldsExclusive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	initial, err := Initial("Armazém A")
	require.NoError(t, err)

	var unit model.Equipment
	unit.Local, unit.Observation = Encode(initial)
	exactlyOneSet(t, unit)

	inUse, err := MarkInUse("Obra A")
	require.NoError(t, err)
	Apply(&unit, inUse, now)
	exactlyOneSet(t, unit)
	assert.Nil(t, unit.Local)
	assert.Equal(t, "Obra A", *unit.Observation)

	stored, err := ReturnToWarehouse("Armazém B")
	require.NoError(t, err)
	Apply(&unit, stored, now)
	exactlyOneSet(t, unit)
	assert.Nil(t, unit.Observation)
	assert.Equal(t, "Armazém B", *unit.Local)

	again, err := MarkInUse("Obra C")
	require.NoError(t, err)
	Apply(&unit, again, now)
	exactlyOneSet(t, unit)
	assert.Nil(t, unit.Local)
}

func TestMarkInUseRejectsBlankSite(t *testing.T) {
	for _, site := range []string{"", "   ", "\t\n"} {
		_, err := MarkInUse(site)
		assert.ErrorIs(t, err, ErrBlankSite, "site %q", site)
	}

	s, err := MarkInUse("  Obra A  ")
	require.NoError(t, err)
	assert.Equal(t, InUse{Site: "Obra A"}, s)
}

func TestReturnToWarehouseRejectsBlankLocation(t *testing.T) {
	_, err := ReturnToWarehouse(" ")
	assert.ErrorIs(t, err, ErrBlankLocation)

	_, err = Initial("")
	assert.ErrorIs(t, err, ErrBlankLocation)
}

func TestDecode(t *testing.T) {
	s, err := Decode(strPtr("A"), nil)
	require.NoError(t, err)
	assert.Equal(t, InWarehouse{Location: "A"}, s)

	s, err = Decode(nil, strPtr("Obra"))
	require.NoError(t, err)
	assert.Equal(t, InUse{Site: "Obra"}, s)

	// Empty strings are treated as absent.
	s, err = Decode(strPtr(""), strPtr("Obra"))
	require.NoError(t, err)
	assert.Equal(t, InUse{Site: "Obra"}, s)

	_, err = Decode(strPtr("A"), strPtr("Obra"))
	assert.ErrorIs(t, err, ErrAmbiguousState)

	_, err = Decode(nil, nil)
	assert.ErrorIs(t, err, ErrNoState)
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		local       *string
		observation *string
		want        State
		wantErr     error
	}{
		{"use", nil, strPtr("Obra A"), InUse{Site: "Obra A"}, nil},
		{"store", strPtr("Armazém"), nil, InWarehouse{Location: "Armazém"}, nil},
		{"both set", strPtr("Armazém"), strPtr("Obra A"), nil, ErrAmbiguousState},
		{"both set, one blank", strPtr("Armazém"), strPtr(""), nil, ErrAmbiguousState},
		{"neither set", nil, nil, nil, ErrNoState},
		{"blank site", nil, strPtr("  "), nil, ErrBlankSite},
		{"blank location", strPtr(""), nil, nil, ErrBlankLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromRequest(tt.local, tt.observation)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTouches(t *testing.T) {
	stored := InWarehouse{Location: "A"}
	moved := InWarehouse{Location: "B"}
	used := InUse{Site: "Obra"}

	assert.True(t, Touches(stored, used))
	assert.True(t, Touches(used, moved))
	assert.True(t, Touches(used, used))
	assert.True(t, Touches(nil, used))
	assert.False(t, Touches(stored, moved))
	assert.False(t, Touches(nil, moved))
}

func TestApplyStampsLastUsed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	unit := model.Equipment{Local: strPtr("A")}

	Apply(&unit, InWarehouse{Location: "B"}, now)
	assert.Nil(t, unit.LastUsedAt, "relocation between warehouses is not usage")

	Apply(&unit, InUse{Site: "Obra"}, now)
	require.NotNil(t, unit.LastUsedAt)
	assert.Equal(t, now, *unit.LastUsedAt)

	later := now.Add(48 * time.Hour)
	Apply(&unit, InWarehouse{Location: "A"}, later)
	assert.Equal(t, later, *unit.LastUsedAt)
}

func TestInactiveBoundary(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	at := func(days int) *time.Time {
		ts := now.Add(-time.Duration(days) * 24 * time.Hour)
		return &ts
	}

	days, inactive := Inactive(model.Equipment{Local: strPtr("A"), LastUsedAt: at(30)}, now)
	assert.Equal(t, 30, days)
	assert.False(t, inactive, "exactly 30 days is not inactive")

	days, inactive = Inactive(model.Equipment{Local: strPtr("A"), LastUsedAt: at(31)}, now)
	assert.Equal(t, 31, days)
	assert.True(t, inactive)

	_, inactive = Inactive(model.Equipment{Local: strPtr("A")}, now)
	assert.False(t, inactive, "no timestamp is never inactive")

	_, inactive = Inactive(model.Equipment{Observation: strPtr("Obra"), LastUsedAt: at(90)}, now)
	assert.False(t, inactive, "units in use are never inactive")
}

func TestIdleDaysFloors(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, IdleDays(now.Add(-23*time.Hour), now))
	assert.Equal(t, 1, IdleDays(now.Add(-25*time.Hour), now))
	assert.Equal(t, 30, IdleDays(now.Add(-(30*24+23)*time.Hour), now))
}
