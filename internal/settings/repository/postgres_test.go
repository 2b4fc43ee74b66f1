package repository

import (
	"reflect"
	"testing"

	domain "github.com/cybaemtech/licensedesk/internal/settings/domain"
)

func TestFlagsToOffsets(t *testing.T) {
	cases := []struct {
		name  string
		flags []bool
		want  []int
	}{
		{"all on", []bool{true, true, true, true, true, true, true}, []int{45, 30, 15, 7, 5, 1, 0}},
		{"all off", []bool{false, false, false, false, false, false, false}, nil},
		{"sparse", []bool{false, true, false, true, false, false, true}, []int{30, 7, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := flagsToOffsets(tc.flags)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("flagsToOffsets(%v) = %v, want %v", tc.flags, got, tc.want)
			}
		})
	}
}

func TestOffsetsToFlags(t *testing.T) {
	got := offsetsToFlags([]int{45, 5, 0})
	want := []bool{true, false, false, false, true, false, true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("offsetsToFlags = %v, want %v", got, want)
	}
}

func TestOffsetsToFlags_IgnoresUnknown(t *testing.T) {
	// Service-layer validation rejects unknown offsets; the mapping still
	// must not panic or mis-set a column if one slips through.
	got := offsetsToFlags([]int{7, 99})
	want := []bool{false, false, false, true, false, false, false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("offsetsToFlags = %v, want %v", got, want)
	}
}

func TestFlagMappingRoundTrip(t *testing.T) {
	for _, offsets := range [][]int{
		{45, 30, 15, 7, 5, 1, 0},
		{30, 7},
		{0},
		nil,
	} {
		got := flagsToOffsets(offsetsToFlags(offsets))
		if !reflect.DeepEqual(got, offsets) {
			t.Errorf("round trip %v -> %v", offsets, got)
		}
	}
}

func TestOffsetColumnsAlignWithKnownOffsets(t *testing.T) {
	if len(offsetColumns) != len(domain.KnownOffsets) {
		t.Fatalf("offsetColumns has %d entries, KnownOffsets has %d",
			len(offsetColumns), len(domain.KnownOffsets))
	}
}
