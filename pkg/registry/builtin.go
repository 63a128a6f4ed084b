package registry

import (
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/agegate"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/booking"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/coupon"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/fileupload"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/rolemanager"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/searchbox"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/subscription"
	"github.com/letsconfuse/manualQaLabs/pkg/scenarios/username"
)

// BuiltinEntries returns the eight lab scenarios in catalog
// order.
func BuiltinEntries() []Entry {
	return []Entry{
		{Definition: agegate.Definition(), Factory: agegate.Factory},
		{Definition: username.Definition(), Factory: username.Factory},
		{Definition: searchbox.Definition(), Factory: searchbox.Factory},
		{Definition: fileupload.Definition(), Factory: fileupload.Factory},
		{Definition: coupon.Definition(), Factory: coupon.Factory},
		{Definition: rolemanager.Definition(), Factory: rolemanager.Factory},
		{Definition: booking.Definition(), Factory: booking.Factory},
		{Definition: subscription.Definition(), Factory: subscription.Factory},
	}
}

// Builtin creates a registry holding the builtin catalog.
func Builtin() *DefaultRegistry {
	r := NewRegistry()
	for _, e := range BuiltinEntries() {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}
