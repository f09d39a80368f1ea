package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Root", KeyRoot, "/content/site", Root("/content/site")},
		{"Site", KeySite, "docs", Site("docs")},
		{"Store", KeyStore, "sqlite", Store("sqlite")},
		{"Identity", KeyIdentity, "sitemap", Identity("sitemap")},
		{"Path", KeyPath, "/var/sitemaps", Path("/var/sitemaps")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"RequestID", KeyRequestID, "rid", RequestID("rid")},
		{"Reason", KeyReason, "commit", Reason("commit")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestIntHelpers(t *testing.T) {
	if a := Part(3); a.Key != KeyPart || a.Value.Int64() != 3 {
		t.Fatalf("unexpected part attr: %v", a)
	}
	if a := Parts(2); a.Key != KeyParts || a.Value.Int64() != 2 {
		t.Fatalf("unexpected parts attr: %v", a)
	}
	if a := Status(404); a.Key != KeyStatus || a.Value.Int64() != 404 {
		t.Fatalf("unexpected status attr: %v", a)
	}
}

func TestErrorNil(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("expected empty error value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("expected boom, got %q", a.Value.String())
	}
}
