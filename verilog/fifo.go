// Package verilog generates the FWFT FIFO primitives instantiated by
// generated kernels.
package verilog

import (
	"errors"
	"fmt"
	"io"
	"math/bits"
)

// DefaultFifoThreshold is the FIFO capacity in bits above which the
// block RAM implementation is chosen over shift register LUTs.
const DefaultFifoThreshold = 1024

// FifoImpl selects the FIFO implementation.
type FifoImpl int

const (
	// FifoAuto selects the implementation from the FIFO capacity.
	FifoAuto FifoImpl = iota
	// FifoBRAM forces the block RAM implementation.
	FifoBRAM
	// FifoSRL forces the shift register LUT implementation.
	FifoSRL
)

// ErrInvalidDepth reports a FIFO depth the templates cannot express.
var ErrInvalidDepth = errors.New("invalid FIFO depth")

// FifoSpec describes one FIFO module.
type FifoSpec struct {
	Width int
	Depth int
	Impl  FifoImpl

	// Name of the generated module. Defaults to fifo_w<width>_d<depth>_A,
	// so identical parameters reproduce the same module.
	Name string

	// Threshold for the capacity-based selection, in bits. Defaults to
	// DefaultFifoThreshold.
	Threshold int
}

func (s FifoSpec) moduleName() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("fifo_w%d_d%d_A", s.Width, s.Depth)
}

func (s FifoSpec) threshold() int {
	if s.Threshold > 0 {
		return s.Threshold
	}
	return DefaultFifoThreshold
}

// addrWidth returns the smallest address width that can hold depth-1.
func addrWidth(depth int) int {
	return bits.Len(uint(depth - 1))
}

// Fifo writes the FIFO module described by `spec` to w. With FifoAuto,
// block RAM is used iff width*depth exceeds the threshold; a FIFO at
// exactly the threshold stays in shift registers.
func Fifo(w io.Writer, spec FifoSpec) error {
	switch spec.Impl {
	case FifoBRAM:
		return BRAMFifo(w, spec)
	case FifoSRL:
		return SRLFifo(w, spec)
	}
	if spec.Width*spec.Depth > spec.threshold() {
		return BRAMFifo(w, spec)
	}
	return SRLFifo(w, spec)
}

// BRAMFifo writes the block RAM implementation of `spec` to w.
func BRAMFifo(w io.Writer, spec FifoSpec) error {
	if spec.Depth < 2 {
		return fmt.Errorf("%w: BRAM FIFO depth %d < 2", ErrInvalidDepth, spec.Depth)
	}
	_, err := fmt.Fprintf(w, bramFifoTemplate, spec.moduleName(), spec.Width, addrWidth(spec.Depth), spec.Depth)
	return err
}

// SRLFifo writes the shift register LUT implementation of `spec` to w.
func SRLFifo(w io.Writer, spec FifoSpec) error {
	if spec.Depth < 2 {
		return fmt.Errorf("%w: SRL FIFO depth %d < 2", ErrInvalidDepth, spec.Depth)
	}
	_, err := fmt.Fprintf(w, srlFifoTemplate, spec.moduleName(), spec.Width, addrWidth(spec.Depth), spec.Depth)
	return err
}

// AutoFifo writes a wrapper module that picks fifo_bram or fifo_srl at
// elaboration time from its parameters. `name` defaults to "fifo".
func AutoFifo(w io.Writer, name string) error {
	if name == "" {
		name = "fifo"
	}
	_, err := fmt.Fprintf(w, autoFifoTemplate, name)
	return err
}

// The templates are rendered with fmt instead of text/template: the
// Verilog replication operator ({N{bit}}) collides with the template
// action delimiters.

const bramFifoTemplate = "`default_nettype none\n\n" + `// first-word fall-through (FWFT) FIFO using block RAM
// based on HLS generated code
module %[1]s #(
  parameter MEM_STYLE  = "block",
  parameter DATA_WIDTH = %[2]d,
  parameter ADDR_WIDTH = %[3]d,
  parameter DEPTH      = %[4]d
) (
  input wire clk,
  input wire reset,

  // write
  output wire                  if_full_n,
  input  wire                  if_write_ce,
  input  wire                  if_write,
  input  wire [DATA_WIDTH-1:0] if_din,

  // read
  output wire                  if_empty_n,
  input  wire                  if_read_ce,
  input  wire                  if_read,
  output wire [DATA_WIDTH-1:0] if_dout
);

(* ram_style = MEM_STYLE *)
reg  [DATA_WIDTH-1:0] mem[0:DEPTH-1];
reg  [DATA_WIDTH-1:0] q_buf;
reg  [ADDR_WIDTH-1:0] waddr;
reg  [ADDR_WIDTH-1:0] raddr;
wire [ADDR_WIDTH-1:0] wnext;
wire [ADDR_WIDTH-1:0] rnext;
wire                  push;
wire                  pop;
reg  [ADDR_WIDTH-1:0] used;
reg                   full_n;
reg                   empty_n;
reg  [DATA_WIDTH-1:0] q_tmp;
reg                   show_ahead;
reg  [DATA_WIDTH-1:0] dout_buf;
reg                   dout_valid;

localparam DepthM1 = DEPTH[ADDR_WIDTH-1:0] - 1'd1;

assign if_full_n  = full_n;
assign if_empty_n = dout_valid;
assign if_dout    = dout_buf;
assign push       = full_n & if_write_ce & if_write;
assign pop        = empty_n & if_read_ce & (~dout_valid | if_read);
assign wnext      = !push              ? waddr              :
                    (waddr == DepthM1) ? {ADDR_WIDTH{1'b0}} : waddr + 1'd1;
assign rnext      = !pop               ? raddr              :
                    (raddr == DepthM1) ? {ADDR_WIDTH{1'b0}} : raddr + 1'd1;

// waddr
always @(posedge clk) begin
  if (reset)
    waddr <= {ADDR_WIDTH{1'b0}};
  else
    waddr <= wnext;
end

// raddr
always @(posedge clk) begin
  if (reset)
    raddr <= {ADDR_WIDTH{1'b0}};
  else
    raddr <= rnext;
end

// used
always @(posedge clk) begin
  if (reset)
    used <= {ADDR_WIDTH{1'b0}};
  else if (push && !pop)
    used <= used + 1'b1;
  else if (!push && pop)
    used <= used - 1'b1;
end

// full_n
always @(posedge clk) begin
  if (reset)
    full_n <= 1'b1;
  else if (push && !pop)
    full_n <= (used != DepthM1);
  else if (!push && pop)
    full_n <= 1'b1;
end

// empty_n
always @(posedge clk) begin
  if (reset)
    empty_n <= 1'b0;
  else if (push && !pop)
    empty_n <= 1'b1;
  else if (!push && pop)
    empty_n <= (used != {{(ADDR_WIDTH-1){1'b0}},1'b1});
end

// mem
always @(posedge clk) begin
  if (push)
    mem[waddr] <= if_din;
end

// q_buf
always @(posedge clk) begin
  q_buf <= mem[rnext];
end

// q_tmp
always @(posedge clk) begin
  if (reset)
    q_tmp <= {DATA_WIDTH{1'b0}};
  else if (push)
    q_tmp <= if_din;
end

// show_ahead
always @(posedge clk) begin
  if (reset)
    show_ahead <= 1'b0;
  else if (push && used == {{(ADDR_WIDTH-1){1'b0}},pop})
    show_ahead <= 1'b1;
  else
    show_ahead <= 1'b0;
end

// dout_buf
always @(posedge clk) begin
  if (reset)
    dout_buf <= {DATA_WIDTH{1'b0}};
  else if (pop)
    dout_buf <= show_ahead? q_tmp : q_buf;
end

// dout_valid
always @(posedge clk) begin
  if (reset)
    dout_valid <= 1'b0;
  else if (pop)
    dout_valid <= 1'b1;
  else if (if_read_ce & if_read)
    dout_valid <= 1'b0;
end

endmodule  // fifo_bram

` + "`default_nettype wire\n"

const srlFifoTemplate = "`default_nettype none\n\n" + `// first-word fall-through (FWFT) FIFO using shift register LUT
// based on HLS generated code
module %[1]s #(
  parameter MEM_STYLE  = "shiftreg",
  parameter DATA_WIDTH = %[2]d,
  parameter ADDR_WIDTH = %[3]d,
  parameter DEPTH      = %[4]d
) (
  input wire clk,
  input wire reset,

  // write
  output wire                  if_full_n,
  input  wire                  if_write_ce,
  input  wire                  if_write,
  input  wire [DATA_WIDTH-1:0] if_din,

  // read
  output wire                  if_empty_n,
  input  wire                  if_read_ce,
  input  wire                  if_read,
  output wire [DATA_WIDTH-1:0] if_dout
);

  wire [ADDR_WIDTH - 1:0] shift_reg_addr;
  wire [DATA_WIDTH - 1:0] shift_reg_data;
  wire [DATA_WIDTH - 1:0] shift_reg_q;
  wire                    shift_reg_ce;
  reg  [ADDR_WIDTH:0]     out_ptr;
  reg                     internal_empty_n;
  reg                     internal_full_n;

  reg [DATA_WIDTH-1:0] mem [0:DEPTH-1];

  assign if_empty_n = internal_empty_n;
  assign if_full_n = internal_full_n;
  assign shift_reg_data = if_din;
  assign if_dout = shift_reg_q;

  assign shift_reg_addr = out_ptr[ADDR_WIDTH] == 1'b0 ? out_ptr[ADDR_WIDTH-1:0] : {ADDR_WIDTH{1'b0}};
  assign shift_reg_ce = (if_write & if_write_ce) & internal_full_n;

  assign shift_reg_q = mem[shift_reg_addr];

  always @(posedge clk) begin
    if (reset) begin
      out_ptr <= ~{ADDR_WIDTH+1{1'b0}};
      internal_empty_n <= 1'b0;
      internal_full_n <= 1'b1;
    end else begin
      if (((if_read && if_read_ce) && internal_empty_n) &&
          (!(if_write && if_write_ce) || !internal_full_n)) begin
        out_ptr <= out_ptr - 1'b1;
        if (out_ptr == {(ADDR_WIDTH+1){1'b0}})
          internal_empty_n <= 1'b0;
        internal_full_n <= 1'b1;
      end
      else if (((if_read & if_read_ce) == 0 | internal_empty_n == 0) &&
        ((if_write & if_write_ce) == 1 & internal_full_n == 1))
      begin
        out_ptr <= out_ptr + 1'b1;
        internal_empty_n <= 1'b1;
        if (out_ptr == DEPTH - {{(ADDR_WIDTH-1){1'b0}}, 2'd2})
          internal_full_n <= 1'b0;
      end
    end
  end

  integer i;
  always @(posedge clk) begin
    if (shift_reg_ce) begin
      for (i = 0; i < DEPTH - 1; i = i + 1)
        mem[i + 1] <= mem[i];
      mem[0] <= shift_reg_data;
    end
  end

endmodule  // fifo_srl

` + "`default_nettype wire\n"

const autoFifoTemplate = "`default_nettype none\n\n" + `// first-word fall-through (FWFT) FIFO
// if its capacity > 1024 bits, it uses block RAM, otherwise it will uses shift
// register LUT
module %[1]s #(
  parameter DATA_WIDTH = 32,
  parameter ADDR_WIDTH = 5,
  parameter DEPTH      = 32
) (
  input wire clk,
  input wire reset,

  // write
  output wire                  if_full_n,
  input  wire                  if_write_ce,
  input  wire                  if_write,
  input  wire [DATA_WIDTH-1:0] if_din,

  // read
  output wire                  if_empty_n,
  input  wire                  if_read_ce,
  input  wire                  if_read,
  output wire [DATA_WIDTH-1:0] if_dout
);

generate
  if (DATA_WIDTH * DEPTH > 1024) begin : bram
    fifo_bram #(
      .DATA_WIDTH(DATA_WIDTH),
      .ADDR_WIDTH(ADDR_WIDTH),
      .DEPTH     (DEPTH)
    ) unit (
      .clk  (clk),
      .reset(reset),

      .if_full_n  (if_full_n),
      .if_write_ce(if_write_ce),
      .if_write   (if_write),
      .if_din     (if_din),

      .if_empty_n(if_empty_n),
      .if_read_ce(if_read_ce),
      .if_read   (if_read),
      .if_dout   (if_dout)
    );
  end else begin : srl
    fifo_srl #(
      .DATA_WIDTH(DATA_WIDTH),
      .ADDR_WIDTH(ADDR_WIDTH),
      .DEPTH     (DEPTH)
    ) unit (
      .clk  (clk),
      .reset(reset),

      .if_full_n  (if_full_n),
      .if_write_ce(if_write_ce),
      .if_write   (if_write),
      .if_din     (if_din),

      .if_empty_n(if_empty_n),
      .if_read_ce(if_read_ce),
      .if_read   (if_read),
      .if_dout   (if_dout)
    );
  end
endgenerate

endmodule  // fifo

` + "`default_nettype wire\n"
