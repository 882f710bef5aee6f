package typesys

import "testing"

func TestStorageTypeFoldsRealToInteger(t *testing.T) {
	f32 := NewReal(32)
	got := StorageType(f32)
	if got.Kind() != Integer || IntBits(got) != 32 || IntSigned(got) {
		t.Fatalf("expected u32 storage type, got %s", got)
	}
}

func TestStorageKindEqualRejectsAggregateMismatch(t *testing.T) {
	i32 := NewInteger(32, true)
	arr1 := ArrayType(i32, 4)
	arr2 := ArrayType(i32, 8)
	if StorageKindEqual(arr1, arr2) {
		t.Fatalf("expected differently-sized arrays to be storage-incompatible")
	}
	if !StorageKindEqual(NewReal(32), NewInteger(32, false)) {
		t.Fatalf("expected f32 and u32 to be storage-compatible")
	}
}

func TestVectorSizesMatch(t *testing.T) {
	i32 := NewInteger(32, true)
	v4 := VectorType(i32, 4)
	v8 := VectorType(i32, 8)
	if VectorSizesMatch(v4, v8) {
		t.Fatalf("expected mismatched vector sizes to fail")
	}
	if !VectorSizesMatch(i32, NewBool()) {
		t.Fatalf("expected two scalars to match regardless of element kind")
	}
}

func TestPointerElemCompatibleFlags(t *testing.T) {
	i32 := NewInteger(32, true)
	wantRO := PointerType(i32, FlagReadable, StorageUnnamed)
	gotRW := PointerType(i32, FlagReadable|FlagWritable, StorageLocal)
	if !PointerElemCompatible(wantRO, gotRW) {
		t.Fatalf("expected a read/write local pointer to satisfy a read-only unnamed requirement")
	}
	wantRW := PointerType(i32, FlagReadable|FlagWritable, StorageUnnamed)
	gotRO := PointerType(i32, FlagReadable, StorageLocal)
	if PointerElemCompatible(wantRW, gotRO) {
		t.Fatalf("expected a read-only pointer to fail a read/write requirement")
	}
}

func TestPointerStorageCompatibleNamedClassesMustMatch(t *testing.T) {
	if !PointerStorageCompatible(StorageUnnamed, StorageHeap) {
		t.Fatalf("unnamed destination should accept any source class")
	}
	if PointerStorageCompatible(StorageLocal, StorageHeap) {
		t.Fatalf("named destination classes must match exactly")
	}
}

func TestIntMinMaxSigned8(t *testing.T) {
	min, max := IntMinMax(NewInteger(8, true))
	if min != -128 || max != 127 {
		t.Fatalf("expected [-128, 127], got [%d, %d]", min, max)
	}
}

func TestIntMinMaxUnsigned8(t *testing.T) {
	min, max := IntMinMax(NewInteger(8, false))
	if min != 0 || max != 255 {
		t.Fatalf("expected [0, 255], got [%d, %d]", min, max)
	}
}

func TestIntMinMaxSigned64(t *testing.T) {
	min, max := IntMinMax(NewInteger(64, true))
	if min != -1<<63 || max != 1<<63-1 {
		t.Fatalf("expected full i64 range, got [%d, %d]", min, max)
	}
}
