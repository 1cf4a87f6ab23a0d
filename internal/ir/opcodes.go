package ir

// Opcode is a single bytecode instruction.
type Opcode byte

const (
	OpConst Opcode = iota // push Constants[u16]
	OpPop
	OpDup

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg

	OpBAnd
	OpBOr
	OpBXor
	OpShl
	OpShr

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpAnd
	OpOr
	OpNot

	OpGetLocal // u16 slot index
	OpSetLocal // u16 slot index

	OpJump         // u16 absolute offset
	OpJumpIfFalse  // u16 absolute offset, pops condition
	OpLoop         // u16 absolute offset (unconditional backward jump)

	OpMakeArray // u16 element count
	OpMakeObject // u16 field count, fields pushed as (key const, value) pairs

	OpCallExternal // u16 external index, u8 arg count; the external's own implementation receives the live Context
	// OpGetProperty is the one access primitive the VM, rather than the
	// code generator, dispatches: a Reference's object type is only
	// known at runtime here (no static type checker precedes codegen,
	// see DESIGN.md), so [obj, key_atom_const] -> [value] inspects
	// obj's Kind at execution time to choose entity-property,
	// string-sub-property, or object-field lookup (§4.4.3). Property
	// *writes* need no such opcode: the deref depth that distinguishes
	// set_property from set_sub_property is syntactic, so codegen
	// lowers both straight to a CallExternal of the matching stdlib
	// name (§4.4.2).
	OpGetProperty

	OpHalt
	OpNop // no-op; used by the peephole optimizer to pad folded instructions in place
)

var opcodeNames = map[Opcode]string{
	OpConst: "CONST",
	OpPop:   "POP",
	OpDup:   "DUP",

	OpAdd: "ADD",
	OpSub: "SUB",
	OpMul: "MUL",
	OpDiv: "DIV",
	OpMod: "MOD",
	OpNeg: "NEG",

	OpBAnd: "BAND",
	OpBOr:  "BOR",
	OpBXor: "BXOR",
	OpShl:  "SHL",
	OpShr:  "SHR",

	OpEq: "EQ",
	OpNe: "NE",
	OpLt: "LT",
	OpLe: "LE",
	OpGt: "GT",
	OpGe: "GE",

	OpAnd: "AND",
	OpOr:  "OR",
	OpNot: "NOT",

	OpGetLocal: "GET_LOCAL",
	OpSetLocal: "SET_LOCAL",

	OpJump:        "JUMP",
	OpJumpIfFalse: "JUMP_IF_FALSE",
	OpLoop:        "LOOP",

	OpMakeArray:  "MAKE_ARRAY",
	OpMakeObject: "MAKE_OBJECT",

	OpCallExternal: "CALL_EXTERNAL",
	OpGetProperty:  "GET_PROPERTY",

	OpHalt: "HALT",
	OpNop:  "NOP",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
