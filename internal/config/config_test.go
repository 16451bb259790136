package config

import "testing"

func TestDefaultTimeouts(t *testing.T) {
	timeouts := DefaultTimeouts()
	if timeouts.DB <= 0 {
		t.Errorf("DB timeout = %v, want positive", timeouts.DB)
	}
	if timeouts.CatalogReload <= 0 || timeouts.CatalogReload >= timeouts.DB {
		t.Errorf("CatalogReload = %v, want positive and shorter than DB timeout", timeouts.CatalogReload)
	}
}

func TestPermissionsAreNotWorldAccessible(t *testing.T) {
	for name, perm := range map[string]int{
		"dir":  DirPermissions,
		"file": FilePermissions,
		"db":   DBFilePermissions,
	} {
		if perm&0o007 != 0 {
			t.Errorf("%s permissions %o grant access to others", name, perm)
		}
	}
}
