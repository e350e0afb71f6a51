package xilinx

import (
	"reflect"
	"strings"
	"testing"
)

func TestSynthScript(t *testing.T) {
	req := BuildRequest{
		Top: "add_kernel",
		Sources: []KernelSource{
			{Path: "/src/add_kernel.cpp"},
			{Path: "/src/adders.cpp", CFlags: "-DUNROLL=8"},
		},
		ClockPeriod:    "3.33",
		Part:           "xcu250-figd2104-2L-e",
		ResetActiveLow: true,
	}
	script, err := SynthScript(req)
	if err != nil {
		t.Fatalf("failed to render synthesis script: %s", err)
	}

	want := `open_project "project"
set_top add_kernel
add_files "/src/add_kernel.cpp" -cflags "-std=c++11"
add_files "/src/adders.cpp" -cflags "-std=c++11 -DUNROLL=8"
open_solution "add_kernel"
set_part {xcu250-figd2104-2L-e}
create_clock -period 3.33 -name default
config_compile -name_max_length 253
config_interface -m_axi_addr64
config_rtl -disable_start_propagation -reset_level low
csynth_design
exit
`
	if script != want {
		t.Fatalf("unexpected synthesis script:\n%s", script)
	}
}

func TestSynthScriptResetPolarity(t *testing.T) {
	script, err := SynthScript(BuildRequest{Top: "k", ClockPeriod: "5", Part: "p"})
	if err != nil {
		t.Fatalf("failed to render synthesis script: %s", err)
	}
	if !strings.Contains(script, "config_rtl -disable_start_propagation -reset_level high\n") {
		t.Fatalf("expected an active-high reset configuration:\n%s", script)
	}
}

func TestSynthScriptWithoutSources(t *testing.T) {
	script, err := SynthScript(BuildRequest{Top: "k", ClockPeriod: "5", Part: "p"})
	if err != nil {
		t.Fatalf("failed to render synthesis script: %s", err)
	}
	if strings.Contains(script, "add_files") {
		t.Fatalf("script should not add any files:\n%s", script)
	}
	if !strings.Contains(script, "set_top k\nopen_solution \"k\"\n") {
		t.Fatalf("source-less script should have adjacent set_top and open_solution:\n%s", script)
	}
}

func TestPackageScript(t *testing.T) {
	req := PackageRequest{
		XOPath:      "/out/add_kernel.xo",
		Top:         "add_kernel",
		KernelXML:   "/out/kernel.xml",
		HDLDir:      "/work/hdl",
		MemoryPorts: []string{"gmem0"},
		CPPKernels:  []string{"/src/add_kernel.cpp"},
	}
	script, err := PackageScript(req)
	if err != nil {
		t.Fatalf("failed to render packaging script: %s", err)
	}

	want := `set tmp_ip_dir "tmp_ip_dir"
set tmp_project "tmp_project"

create_project -force kernel_pack ${tmp_project}
add_files -norecurse [glob /work/hdl/*.v]
foreach tcl_file [glob -nocomplain /work/hdl/*.tcl] {
  source ${tcl_file}
}
set_property top add_kernel [current_fileset]
update_compile_order -fileset sources_1
update_compile_order -fileset sim_1
ipx::package_project -root_dir ${tmp_ip_dir} -vendor xilinx.com -library RTLKernel -taxonomy /KernelIP -import_files -set_current false
ipx::unload_core ${tmp_ip_dir}/component.xml
ipx::edit_ip_in_project -upgrade true -name tmp_edit_project -directory ${tmp_ip_dir} ${tmp_ip_dir}/component.xml
set_property core_revision 2 [ipx::current_core]
foreach up [ipx::get_user_parameters] {
  ipx::remove_user_parameter [get_property NAME ${up}] [ipx::current_core]
}
set_property sdx_kernel true [ipx::current_core]
set_property sdx_kernel_type rtl [ipx::current_core]
ipx::create_xgui_files [ipx::current_core]

ipx::associate_bus_interfaces -busif s_axi_control -clock ap_clk [ipx::current_core]

ipx::associate_bus_interfaces -busif m_axi_gmem0 -clock ap_clk [ipx::current_core]

set_property xpm_libraries {XPM_CDC XPM_MEMORY XPM_FIFO} [ipx::current_core]
set_property supported_families { } [ipx::current_core]
set_property auto_family_support_level level_2 [ipx::current_core]
ipx::update_checksums [ipx::current_core]
ipx::save_core [ipx::current_core]
close_project -delete

package_xo -force -xo_path "/out/add_kernel.xo" -kernel_name add_kernel -ip_directory ${tmp_ip_dir} -kernel_xml /out/kernel.xml -kernel_files /src/add_kernel.cpp
`
	if script != want {
		t.Fatalf("unexpected packaging script:\n%s", script)
	}
}

func TestPackageScriptInterfaceOverride(t *testing.T) {
	req := PackageRequest{
		XOPath:      "/out/k.xo",
		Top:         "k",
		KernelXML:   "/out/kernel.xml",
		HDLDir:      "/work/hdl",
		MemoryPorts: []string{"gmem0"},
		Interfaces:  []string{"s_axi_lite"},
	}
	script, err := PackageScript(req)
	if err != nil {
		t.Fatalf("failed to render packaging script: %s", err)
	}
	if strings.Contains(script, "s_axi_control") {
		t.Fatal("explicit interfaces should replace the default")
	}
	lite := strings.Index(script, "-busif s_axi_lite")
	gmem := strings.Index(script, "-busif m_axi_gmem0")
	if lite < 0 || gmem < 0 || gmem < lite {
		t.Fatalf("expected explicit interfaces before memory ports:\n%s", script)
	}
}

func TestBusInterfaces(t *testing.T) {
	req := PackageRequest{MemoryPorts: []string{"gmem0", "gmem1"}}
	want := []string{"s_axi_control", "m_axi_gmem0", "m_axi_gmem1"}
	if got := req.busInterfaces(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected bus interfaces %v", got)
	}

	req.Interfaces = []string{"a", "b"}
	want = []string{"a", "b", "m_axi_gmem0", "m_axi_gmem1"}
	if got := req.busInterfaces(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected bus interfaces %v", got)
	}
	if len(req.Interfaces) != 2 {
		t.Fatal("busInterfaces must not grow the request's interface list")
	}
}
