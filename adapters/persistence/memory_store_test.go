package persistence

import (
	"testing"

	"github.com/khoahotran/folio/internal/docstore/docstoretest"
)

func TestMemoryStore_Conformance(t *testing.T) {
	docstoretest.Run(t, NewMemoryStore())
}
