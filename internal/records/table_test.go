package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipnotify/internal/types"
)

func slipRow(slipID int64, part string) Record {
	return Record{
		FieldSlipID:   IntValue(slipID),
		FieldPartCode: StringValue(part),
	}
}

func TestTableFind(t *testing.T) {
	table := NewTable("packing_slips", []Record{
		slipRow(100, "A-1"),
		slipRow(200, "B-1"),
		slipRow(100, "A-2"),
	})

	rec, err := table.Find(FieldSlipID, IntValue(100))
	require.NoError(t, err)
	assert.Equal(t, "A-1", rec.Get(FieldPartCode).String(), "first match by scan order wins")

	_, err = table.Find(FieldSlipID, IntValue(999))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrCodeRecordNotFound))
}

func TestTableFindAllBy(t *testing.T) {
	table := NewTable("packing_slips", []Record{
		slipRow(100, "A-1"),
		slipRow(200, "B-1"),
		slipRow(100, "A-2"),
	})

	rows := table.FindAllBy(FieldSlipID, IntValue(100))
	require.Len(t, rows, 2)
	assert.Equal(t, "A-1", rows[0].Get(FieldPartCode).String())
	assert.Equal(t, "A-2", rows[1].Get(FieldPartCode).String())

	assert.Empty(t, table.FindAllBy(FieldSlipID, IntValue(999)), "no match is empty, not an error")
}

func TestTableDistinctSorted(t *testing.T) {
	table := NewTable("packing_slips", []Record{
		slipRow(300, "x"),
		slipRow(100, "x"),
		slipRow(300, "x"),
		{FieldSlipID: StringValue("Z-9"), FieldPartCode: StringValue("x")},
		slipRow(200, "x"),
	})

	got := table.DistinctSorted(FieldSlipID)
	require.Len(t, got, 4)
	assert.Equal(t, "100", got[0].String())
	assert.Equal(t, "200", got[1].String())
	assert.Equal(t, "300", got[2].String())
	assert.Equal(t, "Z-9", got[3].String(), "string IDs sort after numeric ones")
}

func TestRecordGetMissingField(t *testing.T) {
	rec := slipRow(1, "A")
	v := rec.Get(FieldCity)
	assert.True(t, v.IsBlank())
	assert.Equal(t, "", v.String())
}
