package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialog_ConfirmDoesNotClose(t *testing.T) {
	var d Dialog
	ran := 0

	assert.False(t, d.Confirm(func() { ran++ }), "closed dialog ignores confirm")
	assert.Equal(t, 0, ran)

	d.Show("Delete Job Application", "Are you sure?")
	assert.True(t, d.Confirm(func() { ran++ }))
	assert.Equal(t, 1, ran)
	assert.True(t, d.State().Open)

	d.Close()
	assert.False(t, d.State().Open)
	assert.Equal(t, "Delete Job Application", d.State().Title)
}

func TestDialog_Cancel(t *testing.T) {
	var d Dialog
	d.Show("t", "m")
	d.Cancel()
	assert.Equal(t, State{Open: false, Title: "t", Message: "m"}, d.State())
}
