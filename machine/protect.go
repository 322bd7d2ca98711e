package machine

// AccessKind distinguishes the three ways the interpreter touches memory.
type AccessKind int

//go:generate go tool stringer -linecomment -type=AccessKind
const (
	ACCESS_READ  = AccessKind(0) // read
	ACCESS_WRITE = AccessKind(1) // write
	ACCESS_FETCH = AccessKind(2) // fetch
)

// Region partitions the address space for protection purposes.
type Region int

//go:generate go tool stringer -linecomment -type=Region
const (
	REGION_TRAP_TABLE = Region(0) // trap vector table
	REGION_INT_TABLE  = Region(1) // interrupt vector table
	REGION_SYSTEM     = Region(2) // operating system
	REGION_USER       = Region(3) // user space
	REGION_DEVICE     = Region(4) // device registers
)

// RegionOf maps an address to its protection region.
func RegionOf(addr Word) Region {
	switch {
	case addr < INT_TABLE_ADDR:
		return REGION_TRAP_TABLE
	case addr < 0x0200:
		return REGION_INT_TABLE
	case addr < 0x3000:
		return REGION_SYSTEM
	case addr < DEVICE_ADDR:
		return REGION_USER
	default:
		return REGION_DEVICE
	}
}

// CheckAccess validates one memory access against the current privilege
// bit. Supervisor mode passes everywhere. User mode owns user space, may
// additionally read (and fetch through) the trap vector table, and gets an
// access control violation everywhere else.
func CheckAccess(st *State, addr Word, kind AccessKind) error {
	if st.Privilege() == PRIV_SUPERVISOR {
		return nil
	}
	switch RegionOf(addr) {
	case REGION_USER:
		return nil
	case REGION_TRAP_TABLE:
		if kind != ACCESS_WRITE {
			return nil
		}
	}
	return &Fault{Kind: FAULT_ACCESS_CONTROL, Addr: addr, Access: kind}
}

// CheckReturn gates the return-from-exception operation: attempting it in
// user mode is a privilege violation.
func CheckReturn(st *State) error {
	if st.Privilege() == PRIV_USER {
		return &Fault{Kind: FAULT_PRIVILEGE, Addr: st.PC}
	}
	return nil
}
