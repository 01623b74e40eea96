// Copyright (C) 2025 sage-x-project
// SPDX-License-Identifier: LGPL-3.0-or-later

package extensions

import (
	"context"
	"testing"
)

type fakeTenantProvider struct{ tenant string }

func (f *fakeTenantProvider) ResolveTenant(ctx context.Context) (string, error) {
	return f.tenant, nil
}

func TestGet_ReturnsSameInstanceAcrossCalls(t *testing.T) {
	Reset()
	defer Reset()
	if Get() != Get() {
		t.Fatal("expected Get to return the same process-wide instance")
	}
}

func TestRegistry_SlotAbsentByDefault(t *testing.T) {
	Reset()
	defer Reset()
	if Get().TenantProvider() != nil {
		t.Fatal("expected the tenant-provider slot to be nil until installed")
	}
}

func TestRegistry_InstallAndRetrieveSlot(t *testing.T) {
	Reset()
	defer Reset()
	Get().SetTenantProvider(&fakeTenantProvider{tenant: "acme"})

	tp := Get().TenantProvider()
	if tp == nil {
		t.Fatal("expected the tenant-provider slot to be installed")
	}
	tenant, err := tp.ResolveTenant(context.Background())
	if err != nil || tenant != "acme" {
		t.Errorf("expected resolved tenant %q, got %q (err=%v)", "acme", tenant, err)
	}
}

func TestReset_ClearsInstalledSlots(t *testing.T) {
	Reset()
	Get().SetTenantProvider(&fakeTenantProvider{tenant: "acme"})
	Reset()
	defer Reset()
	if Get().TenantProvider() != nil {
		t.Fatal("expected Reset to clear previously installed slots")
	}
}
