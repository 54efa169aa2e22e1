package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncludeFieldPolicy(t *testing.T) {
	cases := []struct {
		name string
		f    Field
		want bool
	}{
		{"public", Field{Visibility: "public"}, true},
		{"private plain", Field{Visibility: "private"}, false},
		{"private serialized", Field{Visibility: "private", Serialized: true}, true},
		{"internal const", Field{Visibility: "internal", Const: true}, true},
		{"private const", Field{Visibility: "private", Const: true}, false},
		{"protected static readonly", Field{Visibility: "protected", Static: true, ReadOnly: true}, true},
		{"protected static only", Field{Visibility: "protected", Static: true}, false},
		{"internal plain", Field{Visibility: "internal"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, includeField(tc.f))
		})
	}
}

func TestIncludeMethodPolicy(t *testing.T) {
	cases := []struct {
		name string
		m    Method
		want bool
	}{
		{"public", Method{Visibility: "public"}, true},
		{"private", Method{Visibility: "private"}, false},
		{"private virtual", Method{Visibility: "private", Virtual: true}, false},
		{"protected plain", Method{Visibility: "protected"}, false},
		{"protected virtual", Method{Visibility: "protected", Virtual: true}, true},
		{"protected override", Method{Visibility: "protected", Override: true}, true},
		{"internal abstract", Method{Visibility: "internal", Abstract: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, includeMethod(tc.m))
		})
	}
}

func TestExtractFieldAttributes(t *testing.T) {
	src := `public class Weapon
{
    [Header("Tuning")]
    [Tooltip("Rounds per second")]
    [SerializeField] private float fireRate = 4f;
    public const int MaxAmmo = 200;
    private static readonly int hashSeed = 17;
}
`
	unit, err := New().Parse("Weapon.cs", []byte(src))
	require.NoError(t, err)
	require.Len(t, unit.Types, 1)

	fields := unit.Types[0].Fields
	require.Len(t, fields, 2)

	assert.Equal(t, "fireRate", fields[0].Name)
	assert.True(t, fields[0].Serialized)
	assert.Equal(t, "Tuning", fields[0].Header)
	assert.Equal(t, "Rounds per second", fields[0].Tooltip)

	assert.Equal(t, "MaxAmmo", fields[1].Name)
	assert.True(t, fields[1].Const)
	// private static readonly stays out: not public, not serialized, and
	// the const clause excludes private.
}

func TestExtractProperties(t *testing.T) {
	src := `public class StateMachine
{
    public enum Phase { Idle, Running }
    private enum Secret { A }

    public Phase Current { get; private set; }
    public float Progress { get; set; }
    public int Phase { get; set; }
    private bool armed { get; set; }
}
`
	unit, err := New().Parse("StateMachine.cs", []byte(src))
	require.NoError(t, err)
	require.Len(t, unit.Types, 1)
	decl := unit.Types[0]

	// Only the public nested enum survives.
	require.Len(t, decl.Enums, 1)
	assert.Equal(t, "Phase", decl.Enums[0].Name)

	// The property sharing a sibling enum's name is dropped as a likely
	// misparse; the private property never qualifies.
	require.Len(t, decl.Properties, 2)

	assert.Equal(t, "Current", decl.Properties[0].Name)
	assert.True(t, decl.Properties[0].HasGetter)
	assert.False(t, decl.Properties[0].HasSetter)

	assert.Equal(t, "Progress", decl.Properties[1].Name)
	assert.True(t, decl.Properties[1].HasGetter)
	assert.True(t, decl.Properties[1].HasSetter)
}

func TestExtractMethods(t *testing.T) {
	src := `public class Enemy
{
    public IEnumerator Attack(float delay)
    {
        yield return null;
    }

    protected override void OnDeath() { }

    private void Tick() { }

    public static Enemy Spawn(Vector3 at, Quaternion rot) { return null; }

    public async Task Load() { }
}
`
	unit, err := New().Parse("Enemy.cs", []byte(src))
	require.NoError(t, err)
	require.Len(t, unit.Types, 1)

	methods := unit.Types[0].Methods
	require.Len(t, methods, 4)

	assert.Equal(t, "Attack", methods[0].Name)
	assert.True(t, methods[0].Coroutine)
	require.Len(t, methods[0].Params, 1)
	assert.Equal(t, Param{Name: "delay", Type: "float"}, methods[0].Params[0])

	assert.Equal(t, "OnDeath", methods[1].Name)
	assert.True(t, methods[1].Override)

	assert.Equal(t, "Spawn", methods[2].Name)
	assert.True(t, methods[2].Static)
	require.Len(t, methods[2].Params, 2)

	assert.Equal(t, "Load", methods[3].Name)
	assert.True(t, methods[3].Async)
	assert.False(t, methods[3].Coroutine)
}

func TestGenericMethodAndReturnTypes(t *testing.T) {
	src := `public class Pool
{
    public Dictionary<string, List<int>> Snapshot() { return null; }

    public T Acquire<T>(string key) { return default; }
}
`
	unit, err := New().Parse("Pool.cs", []byte(src))
	require.NoError(t, err)
	require.Len(t, unit.Types, 1)

	methods := unit.Types[0].Methods
	require.Len(t, methods, 2)
	assert.Equal(t, "Dictionary<string, List<int>>", methods[0].ReturnType)
	assert.Equal(t, "Acquire", methods[1].Name)
	assert.Equal(t, "T", methods[1].ReturnType)
}
