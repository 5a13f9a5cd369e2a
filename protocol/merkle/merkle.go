/*
Package merkle computes the content-addressed roots that identify
Simplicity expressions.

Every root is built from SHA-256 compressions started at a tagged
initial value. Leaves are their tagged value; a node with one child
compresses the child's root with 256 zero bits; a node with two
children compresses the two roots.

Three families of roots are defined:
  - the commitment Merkle root (CMR), which identifies a program and
    is what a program commits to on chain;
  - the type Merkle root (TMR), which identifies a finite type;
  - the annotated Merkle root (AMR), which extends the CMR with the
    TMRs of every node's source and target types.
*/
package merkle

const (
	commitmentPrefix = "Simplicity-Draft\x1fCommitment\x1f"
	annotatedPrefix  = "Simplicity-Draft\x1fAnnotated\x1f"
	typePrefix       = "Simplicity-Draft\x1fType\x1f"
	jetPrefix        = "Simplicity-Draft\x1fJet\x1f"
)

var (
	commitmentIVs = map[string]Hash{}
	annotatedIVs  = map[string]Hash{}

	typeUnit    = TagIV(typePrefix + "unit")
	typeSum     = TagIV(typePrefix + "sum")
	typeProduct = TagIV(typePrefix + "prod")
)

// Combinator names with precomputed initial values.
var names = []string{
	"iden", "unit", "injl", "injr", "take", "drop",
	"comp", "case", "pair", "disconnect", "witness", "jet",
}

func init() {
	for _, n := range names {
		commitmentIVs[n] = TagIV(commitmentPrefix + n)
		annotatedIVs[n] = TagIV(annotatedPrefix + n)
	}
}

// CommitmentIV returns the tagged initial value for the CMR of
// the named combinator.
func CommitmentIV(name string) Hash {
	if iv, ok := commitmentIVs[name]; ok {
		return iv
	}
	return TagIV(commitmentPrefix + name)
}

// AnnotatedIV returns the tagged initial value for the AMR of
// the named combinator.
func AnnotatedIV(name string) Hash {
	if iv, ok := annotatedIVs[name]; ok {
		return iv
	}
	return TagIV(annotatedPrefix + name)
}

// Leaf returns the root of a childless node.
func Leaf(iv Hash) Hash {
	return iv
}

// Unary returns the root of a node with one child.
func Unary(iv, child Hash) Hash {
	return Compress(iv, child, Hash{})
}

// Binary returns the root of a node with two children.
func Binary(iv, left, right Hash) Hash {
	return Compress(iv, left, right)
}

// JetCMR returns the commitment root of the named jet.
func JetCMR(name string) Hash {
	return Unary(CommitmentIV("jet"), TagIV(jetPrefix+name))
}

// TypeUnit returns the TMR of the unit type.
func TypeUnit() Hash {
	return typeUnit
}

// TypeSum returns the TMR of the sum of two types.
func TypeSum(left, right Hash) Hash {
	return Binary(typeSum, left, right)
}

// TypeProduct returns the TMR of the product of two types.
func TypeProduct(left, right Hash) Hash {
	return Binary(typeProduct, left, right)
}

// Annotate returns the starting midstate for the AMR of the named
// combinator at the given source and target types. The caller
// finishes it with Leaf, Unary or Binary over the children's AMRs.
func Annotate(name string, source, target Hash) Hash {
	return Compress(AnnotatedIV(name), source, target)
}
