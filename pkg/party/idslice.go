package party

import (
	"encoding/binary"
	"io"
	"sort"
)

// IDSlice is a sorted list of distinct IDs.
type IDSlice []ID

// NewIDSlice returns a sorted copy of partyIDs.
func NewIDSlice(partyIDs []ID) IDSlice {
	ids := IDSlice(partyIDs).Copy()
	ids.sort()
	return ids
}

func (partyIDs IDSlice) Len() int           { return len(partyIDs) }
func (partyIDs IDSlice) Less(i, j int) bool { return partyIDs[i] < partyIDs[j] }
func (partyIDs IDSlice) Swap(i, j int)      { partyIDs[i], partyIDs[j] = partyIDs[j], partyIDs[i] }

func (partyIDs IDSlice) sort() { sort.Sort(partyIDs) }

// Contains returns true if partyIDs contains all of ids.
func (partyIDs IDSlice) Contains(ids ...ID) bool {
	for _, id := range ids {
		if _, found := partyIDs.search(id); !found {
			return false
		}
	}
	return true
}

// Valid returns true if the slice is sorted, free of duplicates, and contains no empty ID.
func (partyIDs IDSlice) Valid() bool {
	for i, id := range partyIDs {
		if id == "" {
			return false
		}
		if i > 0 && partyIDs[i-1] >= id {
			return false
		}
	}
	return true
}

func (partyIDs IDSlice) search(x ID) (int, bool) {
	index := sort.Search(len(partyIDs), func(i int) bool { return partyIDs[i] >= x })
	if index >= 0 && index < len(partyIDs) && partyIDs[index] == x {
		return index, true
	}
	return 0, false
}

// Copy returns an identical copy of the receiver.
func (partyIDs IDSlice) Copy() IDSlice {
	a := make(IDSlice, len(partyIDs))
	copy(a, partyIDs)
	return a
}

// Remove finds id in partyIDs and returns a copy of the slice without it.
func (partyIDs IDSlice) Remove(id ID) IDSlice {
	newPartyIDs := make(IDSlice, 0, len(partyIDs))
	for _, partyID := range partyIDs {
		if partyID != id {
			newPartyIDs = append(newPartyIDs, partyID)
		}
	}
	return newPartyIDs
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
// Every ID is prefixed by its length.
func (partyIDs IDSlice) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, binary.BigEndian, uint64(len(partyIDs))); err != nil {
		return 0, err
	}
	nAll := int64(8)
	for _, id := range partyIDs {
		if err := binary.Write(w, binary.BigEndian, uint64(len(id))); err != nil {
			return nAll, err
		}
		nAll += 8
		n, err := w.Write([]byte(id))
		nAll += int64(n)
		if err != nil {
			return nAll, err
		}
	}
	return nAll, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (IDSlice) Domain() string {
	return "IDSlice"
}
