package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	cat := FromMessages(map[string]string{
		"success.license.created.successfully": "License created successfully",
		"exception.license.not.found.with.id":  "License with id %s not found for organization %s",
	})

	require.Equal(t, "License created successfully",
		cat.Lookup("success.license.created.successfully"))
	require.Equal(t, "License with id ABC-123 not found for organization org1",
		cat.Lookup("exception.license.not.found.with.id", "ABC-123", "org1"))
}

func TestLookupFallsBackToID(t *testing.T) {
	cat := FromMessages(nil)
	require.Equal(t, "no.such.key", cat.Lookup("no.such.key"))
}

func TestLookupIsCaseInsensitiveOnKeys(t *testing.T) {
	cat := FromMessages(map[string]string{"Message.License.Id.Blank": "blank"})
	require.Equal(t, "blank", cat.Lookup("message.license.id.blank"))
}
