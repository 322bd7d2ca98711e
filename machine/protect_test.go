package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionOf(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		addr   Word
		region Region
	}){
		{0x0000, REGION_TRAP_TABLE},
		{0x00FF, REGION_TRAP_TABLE},
		{0x0100, REGION_INT_TABLE},
		{0x01FF, REGION_INT_TABLE},
		{0x0200, REGION_SYSTEM},
		{0x2FFF, REGION_SYSTEM},
		{0x3000, REGION_USER},
		{0xFDFF, REGION_USER},
		{0xFE00, REGION_DEVICE},
		{0xFFFF, REGION_DEVICE},
	}

	for _, entry := range table {
		assert.Equal(entry.region, RegionOf(entry.addr), "x%04X", entry.addr)
	}
}

func TestCheckAccess(t *testing.T) {
	assert := assert.New(t)

	user := &State{}
	user.Reset()
	user.SetPrivilege(PRIV_USER)

	super := &State{}
	super.Reset()

	kinds := []AccessKind{ACCESS_READ, ACCESS_WRITE, ACCESS_FETCH}

	// Supervisor mode passes everywhere, every access kind.
	for _, addr := range []Word{0x0000, 0x0100, 0x0200, 0x3000, 0xFE00} {
		for _, kind := range kinds {
			assert.NoError(CheckAccess(super, addr, kind))
		}
	}

	table := [](struct {
		name   string
		addr   Word
		kind   AccessKind
		denied bool
	}){
		{"user_space_read", 0x3000, ACCESS_READ, false},
		{"user_space_write", 0xFDFF, ACCESS_WRITE, false},
		{"user_space_fetch", 0x4000, ACCESS_FETCH, false},
		{"trap_table_read", 0x0025, ACCESS_READ, false},
		{"trap_table_fetch", 0x0025, ACCESS_FETCH, false},
		{"trap_table_write", 0x0025, ACCESS_WRITE, true},
		{"int_table_read", 0x0101, ACCESS_READ, true},
		{"system_read", 0x0520, ACCESS_READ, true},
		{"system_fetch", 0x0520, ACCESS_FETCH, true},
		{"device_read", 0xFE00, ACCESS_READ, true},
		{"device_write", 0xFE06, ACCESS_WRITE, true},
	}

	for _, entry := range table {
		err := CheckAccess(user, entry.addr, entry.kind)
		if !entry.denied {
			assert.NoError(err, entry.name)
			continue
		}
		var fault *Fault
		assert.ErrorAs(err, &fault, entry.name)
		assert.Equal(FAULT_ACCESS_CONTROL, fault.Kind, entry.name)
		assert.Equal(entry.addr, fault.Addr, entry.name)
		assert.Equal(entry.kind, fault.Access, entry.name)
	}
}

func TestCheckReturn(t *testing.T) {
	assert := assert.New(t)

	st := &State{}
	st.Reset()
	assert.NoError(CheckReturn(st))

	st.SetPrivilege(PRIV_USER)
	st.PC = 0x3005
	err := CheckReturn(st)
	var fault *Fault
	assert.ErrorAs(err, &fault)
	assert.Equal(FAULT_PRIVILEGE, fault.Kind)
	assert.Equal(Word(0x3005), fault.Addr)
}

func TestFaultError(t *testing.T) {
	assert := assert.New(t)

	fa := &Fault{Kind: FAULT_ACCESS_CONTROL, Addr: 0x0100, Access: ACCESS_WRITE}
	assert.Contains(fa.Error(), "access control violation")
	assert.Contains(fa.Error(), "x0100")

	fa = &Fault{Kind: FAULT_PRIVILEGE, Addr: 0x3000}
	assert.Contains(fa.Error(), "privilege violation")

	assert.Equal(Word(0), FAULT_PRIVILEGE.Vector())
	assert.Equal(Word(1), FAULT_ILLEGAL.Vector())
	assert.Equal(Word(2), FAULT_ACCESS_CONTROL.Vector())
}
