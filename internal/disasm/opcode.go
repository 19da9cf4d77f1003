package disasm

import (
	"avmdis/internal/bytecode"
)

// Opcode identifies an instruction. The numeric value is the 16-bit wire tag.
type Opcode uint16

const (
	OpAbs Opcode = iota
	OpAbsWrapped
	OpAdd
	OpAddWrapped
	OpAnd
	OpAssertEq
	OpAssertNeq
	OpCall
	OpCast
	OpCommitBHP256
	OpCommitBHP512
	OpCommitBHP768
	OpCommitBHP1024
	OpCommitPED64
	OpCommitPED128
	OpDiv
	OpDivWrapped
	OpDouble
	OpGreaterThan
	OpGreaterThanOrEqual
	OpHashBHP256
	OpHashBHP512
	OpHashBHP768
	OpHashBHP1024
	OpHashPED64
	OpHashPED128
	OpHashPSD2
	OpHashPSD4
	OpHashPSD8
	OpInv
	OpIsEq
	OpIsNeq
	OpLessThan
	OpLessThanOrEqual
	OpMod
	OpMul
	OpMulWrapped
	OpNand
	OpNeg
	OpNor
	OpNot
	OpOr
	OpPow
	OpPowWrapped
	OpRem
	OpRemWrapped
	OpShl
	OpShlWrapped
	OpShr
	OpShrWrapped
	OpSquare
	OpSquareRoot
	OpSub
	OpSubWrapped
	OpTernary
	OpXor
	NumOpcodes
)

// Class is the operand and output shape shared by a group of opcodes.
type Class uint8

const (
	ClassUnary Class = iota
	ClassBinary
	ClassAssert
	ClassTernary
	ClassCast
	ClassCall
)

func (c Class) String() string {
	switch c {
	case ClassUnary:
		return "unary"
	case ClassBinary:
		return "binary"
	case ClassAssert:
		return "assert"
	case ClassTernary:
		return "ternary"
	case ClassCast:
		return "cast"
	case ClassCall:
		return "call"
	default:
		return "unknown"
	}
}

// Arity is the fixed operand count of the class, or -1 when the instruction
// carries its own count.
func (c Class) Arity() int {
	switch c {
	case ClassUnary:
		return 1
	case ClassBinary, ClassAssert:
		return 2
	case ClassTernary:
		return 3
	default:
		return -1
	}
}

type opcodeSpec struct {
	mnemonic string
	class    Class
}

// opcodeSpecs is indexed by opcode; every opcode has exactly one entry.
var opcodeSpecs = [NumOpcodes]opcodeSpec{
	OpAbs:                {"abs", ClassUnary},
	OpAbsWrapped:         {"abs.w", ClassUnary},
	OpAdd:                {"add", ClassBinary},
	OpAddWrapped:         {"add.w", ClassBinary},
	OpAnd:                {"and", ClassBinary},
	OpAssertEq:           {"assert.eq", ClassAssert},
	OpAssertNeq:          {"assert.neq", ClassAssert},
	OpCall:               {"call", ClassCall},
	OpCast:               {"cast", ClassCast},
	OpCommitBHP256:       {"commit.bhp256", ClassBinary},
	OpCommitBHP512:       {"commit.bhp512", ClassBinary},
	OpCommitBHP768:       {"commit.bhp768", ClassBinary},
	OpCommitBHP1024:      {"commit.bhp1024", ClassBinary},
	OpCommitPED64:        {"commit.ped64", ClassBinary},
	OpCommitPED128:       {"commit.ped128", ClassBinary},
	OpDiv:                {"div", ClassBinary},
	OpDivWrapped:         {"div.w", ClassBinary},
	OpDouble:             {"double", ClassUnary},
	OpGreaterThan:        {"gt", ClassBinary},
	OpGreaterThanOrEqual: {"gte", ClassBinary},
	OpHashBHP256:         {"hash.bhp256", ClassUnary},
	OpHashBHP512:         {"hash.bhp512", ClassUnary},
	OpHashBHP768:         {"hash.bhp768", ClassUnary},
	OpHashBHP1024:        {"hash.bhp1024", ClassUnary},
	OpHashPED64:          {"hash.ped64", ClassUnary},
	OpHashPED128:         {"hash.ped128", ClassUnary},
	OpHashPSD2:           {"hash.psd2", ClassUnary},
	OpHashPSD4:           {"hash.psd4", ClassUnary},
	OpHashPSD8:           {"hash.psd8", ClassUnary},
	OpInv:                {"inv", ClassUnary},
	OpIsEq:               {"is.eq", ClassBinary},
	OpIsNeq:              {"is.neq", ClassBinary},
	OpLessThan:           {"lt", ClassBinary},
	OpLessThanOrEqual:    {"lte", ClassBinary},
	OpMod:                {"mod", ClassBinary},
	OpMul:                {"mul", ClassBinary},
	OpMulWrapped:         {"mul.w", ClassBinary},
	OpNand:               {"nand", ClassBinary},
	OpNeg:                {"neg", ClassUnary},
	OpNor:                {"nor", ClassBinary},
	OpNot:                {"not", ClassUnary},
	OpOr:                 {"or", ClassBinary},
	OpPow:                {"pow", ClassBinary},
	OpPowWrapped:         {"pow.w", ClassBinary},
	OpRem:                {"rem", ClassBinary},
	OpRemWrapped:         {"rem.w", ClassBinary},
	OpShl:                {"shl", ClassBinary},
	OpShlWrapped:         {"shl.w", ClassBinary},
	OpShr:                {"shr", ClassBinary},
	OpShrWrapped:         {"shr.w", ClassBinary},
	OpSquare:             {"square", ClassUnary},
	OpSquareRoot:         {"sqrt", ClassUnary},
	OpSub:                {"sub", ClassBinary},
	OpSubWrapped:         {"sub.w", ClassBinary},
	OpTernary:            {"ternary", ClassTernary},
	OpXor:                {"xor", ClassBinary},
}

// String returns the lowercase mnemonic used in assembly listings.
func (op Opcode) String() string {
	if op < NumOpcodes {
		return opcodeSpecs[op].mnemonic
	}
	return "unknown"
}

func (op Opcode) MarshalText() ([]byte, error) { return []byte(op.String()), nil }

// Class returns the shape class of op. Callers must only pass defined opcodes.
func (op Opcode) Class() Class {
	return opcodeSpecs[op].class
}

func (op Opcode) Valid() bool { return op < NumOpcodes }

func readOpcode(c *bytecode.Cursor) (Opcode, error) {
	start := c.Offset()
	tag, err := c.ReadU16()
	if err != nil {
		return 0, err
	}
	if op := Opcode(tag); op.Valid() {
		return op, nil
	}
	return 0, bytecode.Errorf(bytecode.ErrUnknownTag, start, "opcode %d", tag)
}
