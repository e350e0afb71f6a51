package verilog

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinterModule(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Module("adder", []string{"clk", "a", "b", "q"})
	p.Always("posedge clk")
	p.If("reset")
	p.Println("q <= 0;")
	p.Else()
	p.Println("q <= a + b;")
	p.End()
	p.End()
	p.EndModule("adder")
	if err := p.Err(); err != nil {
		t.Fatalf("unexpected write error: %s", err)
	}

	want := `module adder (
  clk,
  a,
  b,
  q
);
always @ (posedge clk) begin
  if (reset) begin
    q <= 0;
  end else begin
    q <= a + b;
  end
end
endmodule // adder
`
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestPrinterModuleInstance(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.ModuleInstance("fifo_w32_d32_A", "input_fifo", []Connection{
		{"clk", "clk"},
		{"reset", "rst"},
		{"if_din", "data_in"},
	})
	if err := p.Err(); err != nil {
		t.Fatalf("unexpected write error: %s", err)
	}

	want := `fifo_w32_d32_A input_fifo(
  .clk(clk),
  .reset(rst),
  .if_din(data_in)
);
`
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestPrinterBlocksAndParameters(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Parameter("DATA_WIDTH", "32")
	p.Initial()
	p.Begin()
	p.Println("x = 0;")
	p.End()
	p.End()
	if err := p.Err(); err != nil {
		t.Fatalf("unexpected write error: %s", err)
	}

	want := `parameter DATA_WIDTH = 32;
initial begin
  begin
    x = 0;
  end
end
`
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestPrinterEndModuleWithoutName(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.EndModule("")
	if buf.String() != "endmodule\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestPrinterFifo(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	if err := p.Fifo(FifoSpec{Width: 32, Depth: 4}); err != nil {
		t.Fatalf("failed to write FIFO: %s", err)
	}
	if !strings.Contains(buf.String(), "module fifo_w32_d4_A #(") {
		t.Fatal("expected the FIFO module in the printer output")
	}
}
