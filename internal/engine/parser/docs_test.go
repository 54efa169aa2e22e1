package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemberDocLineComments(t *testing.T) {
	src := `public class Mover
{
    /// <summary>
    /// Moves the actor toward the target.
    /// Pathfinding is delegated to the nav mesh.
    /// </summary>
    [ContextMenu("Move")]
    public void MoveTo(Vector3 target) { }
}
`
	doc := MemberDoc(src, "MoveTo")
	assert.Equal(t, "Moves the actor toward the target. Pathfinding is delegated to the nav mesh.", doc)
}

func TestMemberDocStopsAtPlainCode(t *testing.T) {
	src := `public class Mover
{
    private int steps;
    public void Reset() { }
}
`
	assert.Empty(t, MemberDoc(src, "Reset"))
}

func TestMemberDocBlankLineTerminatesCollection(t *testing.T) {
	src := `public class Mover
{
    // Older note that should not attach.

    // Fires once per frame while moving.
    public void Step() { }
}
`
	assert.Equal(t, "Fires once per frame while moving.", MemberDoc(src, "Step"))
}

func TestMemberDocBlockComment(t *testing.T) {
	src := `public class Saver
{
    /* Persists the current profile
       to disk synchronously. */
    public void Save() { }
}
`
	assert.Equal(t, "Persists the current profile to disk synchronously.", MemberDoc(src, "Save"))
}

func TestMemberDocUnknownName(t *testing.T) {
	assert.Empty(t, MemberDoc("public class A { }", "Missing"))
}

func TestFileDoc(t *testing.T) {
	src := `// Weapon tuning data shared by the combat and UI layers.
// Values are authored in the inspector and treated as read-only at runtime.

using UnityEngine;

public class WeaponTuning { }
`
	doc := FileDoc(src, 80)
	assert.Equal(t,
		"Weapon tuning data shared by the combat and UI layers. Values are authored in the inspector and treated as read-only at runtime.",
		doc)

	// Below the length threshold the block is discarded entirely.
	assert.Empty(t, FileDoc(src, 200))
}

func TestFileDocBlockComment(t *testing.T) {
	src := `/*
 * Central registry for runtime spawn points.
 * Lookup is by zone identifier.
 */
using System;
`
	doc := FileDoc(src, 20)
	assert.Equal(t, "Central registry for runtime spawn points. Lookup is by zone identifier.", doc)
}

func TestFileDocIgnoresLeadingCode(t *testing.T) {
	src := `using System;

// This comment belongs to the type below, not the file.
public class Thing { }
`
	assert.Empty(t, FileDoc(src, 1))
}
