package types

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

const DiscriminatorLength = 8

const (
	GlobalConfigAccountName = "Config"
	StakeRecordAccountName  = "StakeAccount"
	StakeCounterAccountName = "StakeCounter"

	GlobalConfigLen = 32 + 32 + 8 + 1 + 8 + 8
	StakeRecordLen  = 32 + 8 + 8 + 8 + 8 + 1 + 1 + 8
	StakeCounterLen = 8
)

// AccountDiscriminator is the 8 byte prefix that tags persisted accounts:
// the first bytes of sha256("account:<Name>").
func AccountDiscriminator(name string) [DiscriminatorLength]byte {
	var d [DiscriminatorLength]byte
	sum := sha256.Sum256([]byte("account:" + name))
	copy(d[:], sum[:DiscriminatorLength])
	return d
}

// GlobalConfig is the deployment singleton in its persisted layout.
type GlobalConfig struct {
	Admin              Pubkey
	AcceptedAsset      Pubkey
	MonthlyCap         uint64
	PausedStaking      bool
	MonthlyDistributed uint64
	EpochStart         int64
}

// StakeRecord is a single deposit in its persisted layout.
type StakeRecord struct {
	Staker          Pubkey
	DepositAmount   uint64
	RewardAmount    uint64
	StartTime       int64
	DurationSeconds int64
	Claimed         bool
	Tier            Tier
	Index           uint64
}

func (r *StakeRecord) UnlockTime() int64 {
	return r.StartTime + r.DurationSeconds
}

type StakeCounter struct {
	Count uint64
}

func (c *GlobalConfig) MarshalBinary() ([]byte, error) {
	buf := newLayoutWriter(GlobalConfigAccountName, GlobalConfigLen)
	buf.write(c.Admin)
	buf.write(c.AcceptedAsset)
	buf.write(c.MonthlyCap)
	buf.write(c.PausedStaking)
	buf.write(c.MonthlyDistributed)
	buf.write(c.EpochStart)
	return buf.Bytes(), nil
}

func (c *GlobalConfig) UnmarshalBinary(data []byte) error {
	r, err := newLayoutReader(GlobalConfigAccountName, GlobalConfigLen, data)
	if err != nil {
		return err
	}
	var out GlobalConfig
	r.read(&out.Admin)
	r.read(&out.AcceptedAsset)
	r.read(&out.MonthlyCap)
	r.read(&out.PausedStaking)
	r.read(&out.MonthlyDistributed)
	r.read(&out.EpochStart)
	if r.err != nil {
		return r.err
	}
	*c = out
	return nil
}

func (s *StakeRecord) MarshalBinary() ([]byte, error) {
	tier, err := s.Tier.Ordinal()
	if err != nil {
		return nil, err
	}
	buf := newLayoutWriter(StakeRecordAccountName, StakeRecordLen)
	buf.write(s.Staker)
	buf.write(s.DepositAmount)
	buf.write(s.RewardAmount)
	buf.write(s.StartTime)
	buf.write(s.DurationSeconds)
	buf.write(s.Claimed)
	buf.write(tier)
	buf.write(s.Index)
	return buf.Bytes(), nil
}

func (s *StakeRecord) UnmarshalBinary(data []byte) error {
	r, err := newLayoutReader(StakeRecordAccountName, StakeRecordLen, data)
	if err != nil {
		return err
	}
	var (
		out  StakeRecord
		tier uint8
	)
	r.read(&out.Staker)
	r.read(&out.DepositAmount)
	r.read(&out.RewardAmount)
	r.read(&out.StartTime)
	r.read(&out.DurationSeconds)
	r.read(&out.Claimed)
	r.read(&tier)
	r.read(&out.Index)
	if r.err != nil {
		return r.err
	}
	if out.Tier, err = TierFromOrdinal(tier); err != nil {
		return err
	}
	*s = out
	return nil
}

func (c *StakeCounter) MarshalBinary() ([]byte, error) {
	buf := newLayoutWriter(StakeCounterAccountName, StakeCounterLen)
	buf.write(c.Count)
	return buf.Bytes(), nil
}

func (c *StakeCounter) UnmarshalBinary(data []byte) error {
	r, err := newLayoutReader(StakeCounterAccountName, StakeCounterLen, data)
	if err != nil {
		return err
	}
	r.read(&c.Count)
	return r.err
}

type layoutWriter struct {
	bytes.Buffer
}

func newLayoutWriter(name string, size int) *layoutWriter {
	w := &layoutWriter{}
	w.Grow(DiscriminatorLength + size)
	d := AccountDiscriminator(name)
	w.Write(d[:])
	return w
}

// write never fails: bytes.Buffer only errors when out of memory and every
// value passed is fixed-size.
func (w *layoutWriter) write(v any) {
	_ = binary.Write(&w.Buffer, binary.LittleEndian, v)
}

type layoutReader struct {
	r   *bytes.Reader
	err error
}

func newLayoutReader(name string, size int, data []byte) (*layoutReader, error) {
	if len(data) != DiscriminatorLength+size {
		return nil, fmt.Errorf("invalid %s account size: expected %d, got %d", name, DiscriminatorLength+size, len(data))
	}
	want := AccountDiscriminator(name)
	if !bytes.Equal(data[:DiscriminatorLength], want[:]) {
		return nil, fmt.Errorf("account discriminator mismatch for %s", name)
	}
	return &layoutReader{r: bytes.NewReader(data[DiscriminatorLength:])}, nil
}

func (r *layoutReader) read(v any) {
	if r.err != nil {
		return
	}
	r.err = binary.Read(r.r, binary.LittleEndian, v)
}
