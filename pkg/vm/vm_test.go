package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kristofer/loxvm/pkg/compiler"
	"github.com/kristofer/loxvm/pkg/object"
	"github.com/kristofer/loxvm/pkg/vm"
)

func run(t *testing.T, source string) (string, vm.InterpretResult) {
	t.Helper()
	machine := vm.New()
	var out bytes.Buffer
	machine.Stdout = &out
	machine.Stderr = &out
	result := machine.Interpret(func(v *vm.VM) (*object.ObjFunction, error) {
		return compiler.Compile(v, source)
	})
	return out.String(), result
}

func TestArithmeticAndPrint(t *testing.T) {
	out, result := run(t, `print 1 + 2 * 3;`)
	if result != vm.InterpretOK {
		t.Fatalf("expected OK, got %v", result)
	}
	if strings.TrimSpace(out) != "7" {
		t.Errorf("got %q, want 7", out)
	}
}

func TestStringConcatenation(t *testing.T) {
	out, result := run(t, `print "foo" + "bar";`)
	if result != vm.InterpretOK {
		t.Fatalf("expected OK, got %v", result)
	}
	if strings.TrimSpace(out) != "foobar" {
		t.Errorf("got %q, want foobar", out)
	}
}

func TestGlobalAndLocalVariables(t *testing.T) {
	out, result := run(t, `
		var a = 1;
		{
			var a = 2;
			print a;
		}
		print a;
	`)
	if result != vm.InterpretOK {
		t.Fatalf("expected OK, got %v", result)
	}
	lines := strings.Fields(out)
	if len(lines) != 2 || lines[0] != "2" || lines[1] != "1" {
		t.Errorf("got %q, want shadowed local 2 then outer global 1", out)
	}
}

func TestClosureCapturesSharedUpvalue(t *testing.T) {
	out, result := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	if result != vm.InterpretOK {
		t.Fatalf("expected OK, got %v", result)
	}
	if strings.TrimSpace(out) != "1\n2\n3" {
		t.Errorf("got %q, want 1\\n2\\n3", out)
	}
}

func TestClassesInitAndInheritance(t *testing.T) {
	out, result := run(t, `
		class Animal {
			init(name) {
				this.name = name;
			}
			speak() {
				return this.name + " makes a sound";
			}
		}
		class Dog < Animal {
			speak() {
				return super.speak() + " (bark)";
			}
		}
		var d = Dog("Rex");
		print d.speak();
	`)
	if result != vm.InterpretOK {
		t.Fatalf("expected OK, got %v", result)
	}
	if strings.TrimSpace(out) != "Rex makes a sound (bark)" {
		t.Errorf("got %q", out)
	}
}

func TestComputedPropertyAccess(t *testing.T) {
	out, result := run(t, `
		class Box {}
		var b = Box();
		b["value"] = 42;
		print b["value"];
	`)
	if result != vm.InterpretOK {
		t.Fatalf("expected OK, got %v", result)
	}
	if strings.TrimSpace(out) != "42" {
		t.Errorf("got %q, want 42", out)
	}
}

func TestComputedPropertyNameMustBeString(t *testing.T) {
	out, result := run(t, `
		class Box {}
		var b = Box();
		var k = Box();
		print b[k];
	`)
	if result != vm.InterpretRuntimeError {
		t.Fatalf("expected a runtime error, got %v", result)
	}
	if !strings.Contains(out, "Property name must be a string.") {
		t.Errorf("got %q, want the property-name-must-be-a-string message", out)
	}
}

func TestComputedPropertySetNameMustBeString(t *testing.T) {
	out, result := run(t, `
		class Box {}
		var b = Box();
		var k = Box();
		b[k] = 1;
	`)
	if result != vm.InterpretRuntimeError {
		t.Fatalf("expected a runtime error, got %v", result)
	}
	if !strings.Contains(out, "Property name must be a string.") {
		t.Errorf("got %q, want the property-name-must-be-a-string message", out)
	}
}

func TestComputedPropertyGetIsFieldOnly(t *testing.T) {
	out, result := run(t, `
		class Box {
			value() {
				return "method";
			}
		}
		var b = Box();
		print b["value"];
	`)
	if result != vm.InterpretRuntimeError {
		t.Fatalf("expected a runtime error (field-only lookup must not bind the method), got %v", result)
	}
	if !strings.Contains(out, "Undefined property 'value'.") {
		t.Errorf("got %q, want an undefined-property message", out)
	}
}

func TestPlainPropertyGetFallsThroughToMethod(t *testing.T) {
	out, result := run(t, `
		class Box {
			value() {
				return "method";
			}
		}
		var b = Box();
		print b.value();
	`)
	if result != vm.InterpretOK {
		t.Fatalf("expected OK, got %v", result)
	}
	if strings.TrimSpace(out) != "method" {
		t.Errorf("got %q, want method", out)
	}
}

func TestRuntimeErrorReportsBacktrace(t *testing.T) {
	out, result := run(t, `print 1 + "a";`)
	if result != vm.InterpretRuntimeError {
		t.Fatalf("expected a runtime error, got %v", result)
	}
	if !strings.Contains(out, "Operands must be two numbers or two strings.") {
		t.Errorf("expected the type-mismatch message, got %q", out)
	}
	if !strings.Contains(out, "[line 1] in script") {
		t.Errorf("expected a script-frame backtrace line, got %q", out)
	}
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, result := run(t, `print undefinedThing;`)
	if result != vm.InterpretRuntimeError {
		t.Fatalf("expected a runtime error, got %v", result)
	}
}

func TestModuloTruncatesToInteger(t *testing.T) {
	out, result := run(t, `print 7.9 % 2.9;`)
	if result != vm.InterpretOK {
		t.Fatalf("expected OK, got %v", result)
	}
	if strings.TrimSpace(out) != "1" {
		t.Errorf("got %q, want 1 (7 %% 2 truncated)", out)
	}
}

func TestForLoop(t *testing.T) {
	out, result := run(t, `
		var sum = 0;
		for (var i = 0; i < 5; i = i + 1) {
			sum = sum + i;
		}
		print sum;
	`)
	if result != vm.InterpretOK {
		t.Fatalf("expected OK, got %v", result)
	}
	if strings.TrimSpace(out) != "10" {
		t.Errorf("got %q, want 10", out)
	}
}

func TestNativeClockIsCallable(t *testing.T) {
	_, result := run(t, `print clock();`)
	if result != vm.InterpretOK {
		t.Fatalf("expected OK calling the clock() native, got %v", result)
	}
}
