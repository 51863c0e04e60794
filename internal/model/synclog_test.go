package model

import "testing"

func TestSyncStatus_Terminal(t *testing.T) {
	if SyncPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if !SyncSuccess.Terminal() {
		t.Error("success is terminal")
	}
	if !SyncFailed.Terminal() {
		t.Error("failed is terminal")
	}
}

func TestValidSyncKinds(t *testing.T) {
	for _, kind := range []SyncKind{SyncFull, SyncPartial, SyncPullFromClient, SyncPushToClient, SyncMetadataRefresh} {
		if !ValidSyncKinds[kind] {
			t.Errorf("%s should be a valid sync kind", kind)
		}
	}
	if ValidSyncKinds[SyncKind("sideways")] {
		t.Error("unknown kinds must not validate")
	}
}

func TestChannelPatch_IsEmpty(t *testing.T) {
	if !(ChannelPatch{}).IsEmpty() {
		t.Error("zero patch is empty")
	}
	active := true
	if (ChannelPatch{IsActive: &active}).IsEmpty() {
		t.Error("patch with a field set is not empty")
	}
}
