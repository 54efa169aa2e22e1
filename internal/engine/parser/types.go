package parser

// Unit is the structural model of one parsed source file. It is built in a
// single pass and read-only afterwards, except for Dependencies, which the
// resolver fills in once the whole corpus is known.
type Unit struct {
	Path      string
	Name      string // file base name without extension
	Namespace string
	Usings    []string
	Types     []TypeDecl
	Enums     []Enum // top-level enums only
	Doc       string // file-level documentation block
	// EditorOnly marks units guarded by an editor-only conditional
	// compilation block (#if UNITY_EDITOR).
	EditorOnly bool

	Dependencies []string // names of other units this unit references
}

type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindStruct    TypeKind = "struct"
	KindInterface TypeKind = "interface"
)

type TypeDecl struct {
	Name       string
	Visibility string
	Kind       TypeKind
	Abstract   bool
	Static     bool
	Partial    bool
	// Bases is the raw base-type list in declaration order. The first entry
	// may be a superclass, the rest capability contracts; the parser does
	// not distinguish them.
	Bases      []string
	Fields     []Field
	Properties []Property
	Methods    []Method
	Enums      []Enum
	Doc        string
}

type Field struct {
	Name       string
	Type       string // raw, may include generic brackets
	Visibility string
	Static     bool
	ReadOnly   bool
	Const      bool
	// Serialized marks fields annotated for inspector inclusion
	// ([SerializeField]) regardless of visibility.
	Serialized bool
	Default    string
	Header     string // [Header("...")] grouping label
	Tooltip    string // [Tooltip("...")] short description
}

type Property struct {
	Name       string
	Type       string
	Visibility string
	HasGetter  bool
	HasSetter  bool
	Static     bool
}

type Method struct {
	Name       string
	ReturnType string
	Visibility string
	Static     bool
	Virtual    bool
	Override   bool
	Abstract   bool
	Async      bool
	// Coroutine is a purely lexical classification: the return type equals
	// the iterator-protocol marker (IEnumerator).
	Coroutine bool
	Params    []Param
	Doc       string
}

type Param struct {
	Name string
	// Type is "?" when no type token could be separated from the fragment.
	Type    string
	Default string
}

type Enum struct {
	Name       string
	Visibility string
	// Values holds the symbolic member names; explicit numeric assignments
	// are discarded.
	Values []string
}

// Diagnostic records one file that could not be processed at all. The unit
// is excluded from the corpus; the batch continues.
type Diagnostic struct {
	Path   string
	Reason string
}
