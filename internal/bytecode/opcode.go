// Package bytecode compiles a parsed program (internal/ast) into register
// bytecode: a flat table of CodeBlocks, each holding an instruction stream,
// a constant pool, and the metadata a frame needs to run it.
//
// Architecture: register machine, one CodeBlock per function (and one for
// the top-level script/module body). Every declared binding that could be
// captured by a closure, read through `with`, or looked up dynamically by
// name lives in the running frame's environment record chain
// (internal/environment); registers hold only expression-evaluation
// temporaries and call arguments, addressed by small integer index scoped
// to the owning CodeBlock. This trades the fastest possible local-variable
// path for a single, uniform binding-resolution story that already covers
// closures, `with`, and eval-introduced bindings without a separate
// upvalue mechanism.
package bytecode

// OpCode identifies a bytecode instruction. Operand meaning is documented
// per opcode below; an instruction's A/B/C fields are interpreted however
// that opcode defines them (register index, constant index, jump target,
// or plain immediate).
type OpCode uint8

const (
	// ========================================
	// Constants and literals
	// ========================================

	// OpLoadConst sets register A to Constants[B].
	OpLoadConst OpCode = iota
	// OpLoadUndefined sets register A to undefined.
	OpLoadUndefined
	// OpLoadNull sets register A to null.
	OpLoadNull
	// OpLoadTrue sets register A to true.
	OpLoadTrue
	// OpLoadFalse sets register A to false.
	OpLoadFalse
	// OpMove copies register B into register A.
	OpMove

	// ========================================
	// Bindings (locals, closures, globals, and `with` all resolve
	// through the environment chain; see BindingLocator)
	// ========================================

	// OpGetVar resolves Names[B] through the current environment chain
	// and stores the value in register A. Raises ReferenceError if the
	// name resolves to nothing or sits in the temporal dead zone.
	OpGetVar
	// OpSetVar assigns register A to Names[B] through the environment
	// chain. Raises TypeError on an immutable binding in strict mode.
	OpSetVar
	// OpInitVar initializes Names[B] (a let/const/class/parameter
	// binding already created but not yet initialized) to register A,
	// bypassing the temporal-dead-zone check SetVar would apply.
	OpInitVar
	// OpDeclareVar creates a mutable, non-deletable `var`-kind binding
	// for Names[B] in the nearest var-scope, initialized to undefined
	// if not already bound (hoisting).
	OpDeclareVar
	// OpDeclareLet creates an uninitialized mutable binding for
	// Names[B] in the current lexical environment (TDZ until InitVar).
	OpDeclareLet
	// OpDeclareConst creates an uninitialized immutable binding for
	// Names[B] in the current lexical environment.
	OpDeclareConst
	// OpDeleteVar deletes Names[B] through the environment chain,
	// storing the boolean result (false for non-configurable bindings)
	// in register A.
	OpDeleteVar
	// OpTypeofVar is like OpGetVar but yields "undefined" instead of
	// raising ReferenceError when Names[B] is unresolved.
	OpTypeofVar
	// OpPushWith pushes an object environment wrapping register A
	// (ToObject-converted) onto the environment chain for `with`.
	OpPushWith
	// OpPopEnv pops the innermost environment record pushed by
	// OpPushWith, a block, a catch clause, or a for-loop per-iteration
	// binding copy.
	OpPopEnv
	// OpPushBlockEnv pushes a fresh declarative environment for a
	// block's lexical declarations.
	OpPushBlockEnv

	// ========================================
	// Object and array construction and access
	// ========================================

	// OpNewObject stores a new ordinary object (Object.prototype-linked)
	// into register A.
	OpNewObject
	// OpNewArray stores a new empty array into register A.
	OpNewArray
	// OpGetProp reads register B's property Names[C] into register A.
	OpGetProp
	// OpSetProp writes register C into register B's property Names[A]
	// (A names the property, unlike most ops, to keep the receiver and
	// value registers adjacent for the common chained-assignment case).
	OpSetProp
	// OpGetIndex reads register B's property keyed by register C
	// (ToPropertyKey-converted) into register A.
	OpGetIndex
	// OpSetIndex writes register C into register A's property keyed by
	// register B.
	OpSetIndex
	// OpDeleteProp deletes register B's property Names[C], storing the
	// boolean result in register A.
	OpDeleteProp
	// OpDeleteIndex deletes register A's property keyed by register B,
	// storing the boolean result in register C.
	OpDeleteIndex
	// OpDefineDataProp defines an own enumerable data property Names[B]
	// on register A's object with value register C (object/class
	// literal initialization; always writable/enumerable/configurable
	// unless OpDefineField says otherwise).
	OpDefineDataProp
	// OpDefineComputedProp is OpDefineDataProp with the key taken from
	// register B (ToPropertyKey-converted) instead of the Names
	// table, value in register C.
	OpDefineComputedProp
	// OpDefineGetter installs register C as an accessor getter for
	// property Names[B] on object register A.
	OpDefineGetter
	// OpDefineSetter installs register C as an accessor setter for
	// property Names[B] on object register A.
	OpDefineSetter
	// OpAppendElement pushes register C onto array register A at
	// index B (array literal element, non-spread).
	OpAppendElement
	// OpSpreadInto iterates register C and appends each yielded value
	// onto array register A, starting at the next free index (array
	// literal spread element, spread call argument collection).
	OpSpreadInto
	// OpCopyOwnProps copies register C's own enumerable string-keyed
	// properties onto object register A (object literal spread, and
	// rest-object construction in object destructuring). Unlike
	// OpSpreadInto this does not go through the iterator protocol.
	OpCopyOwnProps
	// OpGetSuperProp reads the home object's [[Prototype]]'s property
	// Names[B] with `this` (register A) as receiver, storing the
	// result in register A.
	OpGetSuperProp
	// OpSetSuperProp writes register B into the home object's
	// [[Prototype]]'s property Names[A] with `this` as receiver.
	OpSetSuperProp

	// ========================================
	// Arithmetic, comparison, logical (generic: apply ToNumeric /
	// ToPrimitive coercions at run time, per the language's abstract
	// operations rather than split by static type)
	// ========================================

	// OpAdd stores register B + register C (the `+` operator's
	// ToPrimitive-then-string-concat-or-ToNumeric behavior) in A.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpUShr
	// OpNeg stores -register B (ToNumeric) in register A.
	OpNeg
	// OpPos stores +register B (ToNumber) in register A.
	OpPos
	// OpBitNot stores ^register B in register A.
	OpBitNot
	// OpNot stores !ToBoolean(register B) in register A.
	OpNot
	// OpEq stores the `==` abstract-equality result of B, C in A.
	OpEq
	OpNotEq
	// OpStrictEq stores the `===` result of B, C in A.
	OpStrictEq
	OpStrictNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	// OpInstanceOf stores the `instanceof` result of B, C in A.
	OpInstanceOf
	// OpIn stores whether the property keyed by register B exists on
	// object register C (the `in` operator) in A.
	OpIn
	// OpTypeof stores typeof(register B) in register A (register
	// form, used for non-identifier operands; OpTypeofVar covers bare
	// identifiers so an unresolved name doesn't throw).
	OpTypeof

	// ========================================
	// Control flow
	// ========================================

	// OpJump unconditionally sets ip to A (an absolute instruction
	// index).
	OpJump
	// OpJumpIfFalse sets ip to A if ToBoolean(register B) is false.
	OpJumpIfFalse
	// OpJumpIfTrue sets ip to A if ToBoolean(register B) is true.
	OpJumpIfTrue
	// OpJumpIfNullish sets ip to A if register B is undefined or null
	// (short-circuit for `?.`).
	OpJumpIfNullish
	// OpJumpIfNotNullish sets ip to A if register B is NOT undefined
	// or null (short-circuit for `??`).
	OpJumpIfNotNullish

	// ========================================
	// Functions, calls, `this`
	// ========================================

	// OpMakeClosure stores a new function object into register A, built
	// from InnerFunctions[B] and capturing the current environment as
	// the closure's [[Environment]].
	OpMakeClosure
	// OpCall invokes register A as [[Call]] with this-value register B
	// and the C consecutive argument registers starting at B+1,
	// storing the return value back into register A.
	OpCall
	// OpCallSpread is OpCall where register C holds a single Array of
	// already-assembled arguments (built by OpSpreadInto) rather than a
	// fixed run of argument registers.
	OpCallSpread
	// OpNew invokes register A as [[Construct]] with newTarget=A and
	// the C consecutive argument registers starting at B, storing the
	// constructed object back into register A.
	OpNew
	// OpNewSpread is OpNew with register C holding an assembled
	// argument Array.
	OpNewSpread
	// OpSuperCall invokes the active class's parent constructor
	// (register A, set by OpLoadSuperConstructor) as [[Construct]]
	// with explicit newTarget register B and the C consecutive
	// argument registers starting at B+1, storing the constructed
	// `this` back into register A. Mirrors OpCall's this-plus-run
	// layout (B's slot carries newTarget instead of a this-value).
	OpSuperCall
	// OpSuperCallSpread is OpSuperCall where register C holds a single
	// already-assembled argument Array.
	OpSuperCallSpread
	// OpReturn ends the current frame, yielding register A to the
	// caller's destination register.
	OpReturn
	// OpLoadThis stores the frame's `this` binding (resolved through
	// GetThisEnvironment) in register A.
	OpLoadThis
	// OpLoadNewTarget stores the frame's [[NewTarget]] in register A
	// (undefined outside a constructor call).
	OpLoadNewTarget
	// OpLoadSuperConstructor stores the active class's parent
	// constructor in register A, for `super(...)` calls.
	OpLoadSuperConstructor
	// OpBindThis binds the frame's uninitialized `this` (a derived
	// constructor, after `super(...)` returns) to register A.
	OpBindThis
	// OpMakeArguments builds a mapped or unmapped arguments object
	// from the current frame's actual arguments and stores it in
	// register A.
	OpMakeArguments
	// OpMakeRest collects the actual arguments from index B onward
	// into a new Array stored in register A.
	OpMakeRest

	// ========================================
	// Exceptions
	// ========================================

	// OpThrow raises register A as a thrown exception.
	OpThrow
	// OpPushHandler pushes a try-handler frame: A is the catch target
	// ip (the finally target ip, equal to B, if this try has no catch),
	// B is the finally target ip (-1 if none).
	OpPushHandler
	// OpPopHandler pops the innermost try-handler frame.
	OpPopHandler
	// OpGetException stores the pending exception (set by OpThrow or
	// an internal operation) into register A and clears the pending
	// state, for use at a catch target.
	OpGetException
	// OpFinallyEnter marks entry into a finally block reached via
	// normal control flow (not unwinding), so OpFinallyExit knows
	// there is no pending completion to resume.
	OpFinallyEnter
	// OpFinallyExit resumes whatever completion (normal, throw,
	// return, break, continue) was in progress when the finally
	// block's handler was invoked.
	OpFinallyExit

	// ========================================
	// Iteration protocol (for-of, spread, destructuring)
	// ========================================

	// OpGetIterator stores register B's [Symbol.iterator]() result in
	// register A (async variant selects [Symbol.asyncIterator]).
	OpGetIterator
	OpGetAsyncIterator
	// OpForInIterator stores a key-enumeration iterator over register
	// B's own and inherited enumerable string property names (for-in's
	// enumeration, distinct from the Symbol.iterator protocol) in
	// register A. Visits each name at most once even as the underlying
	// object's shape changes during iteration.
	OpForInIterator
	// OpIteratorNext calls register A's next(), storing the result
	// object in register B and a "done" boolean in register C.
	OpIteratorNext
	// OpIteratorValue reads the `value` property of IteratorResult
	// register B into register A.
	OpIteratorValue
	// OpIteratorClose calls register A's return() method, ignoring a
	// non-callable return and swallowing its result (used when a for-of
	// body exits early via break; a return or throw out of the body
	// does not pass through it, so the iterator is not closed then).
	OpIteratorClose

	// ========================================
	// Generators and async functions
	// ========================================

	// OpYield suspends the current generator frame, delivering
	// register A to the caller of next()/return()/throw(); on resume,
	// the sent value (or re-thrown exception) lands in register A.
	OpYield
	// OpYieldStar delegates iteration to register A's iterator,
	// re-yielding each value and forwarding sent values/exceptions,
	// storing the delegate's final return value in register A.
	OpYieldStar
	// OpAwait suspends the current async frame until register A (the
	// awaited value, boxed in a promise if not already one) settles;
	// on resume, the fulfillment value (or rejection reason, thrown)
	// lands in register A.
	OpAwait

	// ========================================
	// Classes
	// ========================================

	// OpDefineField defines an own data property Names[B] on object
	// register A with value register C, running no [[DefineOwnProperty]]
	// exotic behavior beyond plain CreateDataPropertyOrThrow (instance
	// field initializer).
	OpDefineField
	// OpDefineClass builds a class from InnerFunctions[B] (the
	// constructor CodeBlock, tagged with its method/field table) with
	// parent class register C (-1 for a class with no extends clause),
	// storing the resulting constructor in register A.
	OpDefineClass
	// OpGetPrivate reads private field PrivateNames[B] off register A
	// (after a brand check), storing the value in register A.
	OpGetPrivate
	// OpSetPrivate writes register C into private field PrivateNames[B]
	// on register A (after a brand check).
	OpSetPrivate
	// OpHasPrivate stores whether register B has a brand for
	// PrivateNames[A] installed, in register A.
	OpHasPrivate

	// ========================================
	// Misc
	// ========================================

	// OpMakeRegExp builds a RegExp object from pattern register A and
	// flags register B, storing the result back into A.
	OpMakeRegExp
	// OpToPropertyKey coerces register B to a property key (string or
	// symbol), storing the result in register A.
	OpToPropertyKey
	// OpConcatTemplate joins the C consecutive registers starting at B
	// (already-stringified template pieces and substitutions) into a
	// single string in register A.
	OpConcatTemplate
	// OpNop does nothing; used as a jump target placeholder during
	// compilation before offsets are patched.
	OpNop
	// OpHalt stops the frame's execution without producing a value
	// (top-level script completion).
	OpHalt

	opCodeCount
)

var opNames = [opCodeCount]string{
	OpLoadConst: "LoadConst", OpLoadUndefined: "LoadUndefined", OpLoadNull: "LoadNull",
	OpLoadTrue: "LoadTrue", OpLoadFalse: "LoadFalse", OpMove: "Move",
	OpGetVar: "GetVar", OpSetVar: "SetVar", OpInitVar: "InitVar",
	OpDeclareVar: "DeclareVar", OpDeclareLet: "DeclareLet", OpDeclareConst: "DeclareConst",
	OpDeleteVar: "DeleteVar", OpTypeofVar: "TypeofVar", OpPushWith: "PushWith",
	OpPopEnv: "PopEnv", OpPushBlockEnv: "PushBlockEnv",
	OpNewObject: "NewObject", OpNewArray: "NewArray", OpGetProp: "GetProp",
	OpSetProp: "SetProp", OpGetIndex: "GetIndex", OpSetIndex: "SetIndex",
	OpDeleteProp: "DeleteProp", OpDeleteIndex: "DeleteIndex",
	OpDefineDataProp: "DefineDataProp", OpDefineComputedProp: "DefineComputedProp",
	OpDefineGetter: "DefineGetter", OpDefineSetter: "DefineSetter",
	OpAppendElement: "AppendElement", OpSpreadInto: "SpreadInto", OpCopyOwnProps: "CopyOwnProps",
	OpGetSuperProp: "GetSuperProp", OpSetSuperProp: "SetSuperProp",
	OpAdd: "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div", OpMod: "Mod", OpExp: "Exp",
	OpBitAnd: "BitAnd", OpBitOr: "BitOr", OpBitXor: "BitXor",
	OpShl: "Shl", OpShr: "Shr", OpUShr: "UShr",
	OpNeg: "Neg", OpPos: "Pos", OpBitNot: "BitNot", OpNot: "Not",
	OpEq: "Eq", OpNotEq: "NotEq", OpStrictEq: "StrictEq", OpStrictNotEq: "StrictNotEq",
	OpLess: "Less", OpLessEq: "LessEq", OpGreater: "Greater", OpGreaterEq: "GreaterEq",
	OpInstanceOf: "InstanceOf", OpIn: "In", OpTypeof: "Typeof",
	OpJump: "Jump", OpJumpIfFalse: "JumpIfFalse", OpJumpIfTrue: "JumpIfTrue",
	OpJumpIfNullish: "JumpIfNullish", OpJumpIfNotNullish: "JumpIfNotNullish",
	OpMakeClosure: "MakeClosure", OpCall: "Call", OpCallSpread: "CallSpread",
	OpNew: "New", OpNewSpread: "NewSpread",
	OpSuperCall: "SuperCall", OpSuperCallSpread: "SuperCallSpread",
	OpReturn: "Return",
	OpLoadThis: "LoadThis", OpLoadNewTarget: "LoadNewTarget",
	OpLoadSuperConstructor: "LoadSuperConstructor", OpBindThis: "BindThis",
	OpMakeArguments: "MakeArguments", OpMakeRest: "MakeRest",
	OpThrow: "Throw", OpPushHandler: "PushHandler", OpPopHandler: "PopHandler",
	OpGetException: "GetException", OpFinallyEnter: "FinallyEnter", OpFinallyExit: "FinallyExit",
	OpGetIterator: "GetIterator", OpGetAsyncIterator: "GetAsyncIterator",
	OpForInIterator: "ForInIterator",
	OpIteratorNext: "IteratorNext", OpIteratorValue: "IteratorValue", OpIteratorClose: "IteratorClose",
	OpYield: "Yield", OpYieldStar: "YieldStar", OpAwait: "Await",
	OpDefineField: "DefineField", OpDefineClass: "DefineClass",
	OpGetPrivate: "GetPrivate", OpSetPrivate: "SetPrivate", OpHasPrivate: "HasPrivate",
	OpMakeRegExp: "MakeRegExp",
	OpToPropertyKey: "ToPropertyKey", OpConcatTemplate: "ConcatTemplate",
	OpNop: "Nop", OpHalt: "Halt",
}

func (op OpCode) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "OpCode(?)"
}
