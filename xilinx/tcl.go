package xilinx

import (
	"strings"
	"text/template"

	"github.com/Ruola/haoda/util"
)

// KernelSource is one source file passed to synthesis. Extra compile
// flags are appended after the fixed -std=c++11.
type KernelSource struct {
	Path   string
	CFlags string
}

// BuildRequest describes one synthesis invocation.
type BuildRequest struct {
	Top         string
	Sources     []KernelSource
	ClockPeriod string
	Part        string

	// ResetActiveLow selects the reset polarity of the generated RTL.
	ResetActiveLow bool
}

// PackageRequest describes one packaging invocation.
type PackageRequest struct {
	// XOPath is where the external tool writes the hardware object.
	XOPath    string
	Top       string
	KernelXML string
	HDLDir    string

	// MemoryPorts are port names bound to the memory bus; each becomes
	// an m_axi_<name> bus interface association.
	MemoryPorts []string

	// Interfaces are bus interface names associated verbatim. Empty
	// means the single control register slave interface.
	Interfaces []string

	// CPPKernels are kernel source files embedded into the object for
	// software emulation.
	CPPKernels []string
}

// defaultInterface is the control register slave every kernel exposes
// unless the caller overrides the interface list.
const defaultInterface = "s_axi_control"

// busInterfaces returns the full association list: the explicit
// interfaces (or the default) first, then one m_axi entry per memory
// port.
func (req PackageRequest) busInterfaces() []string {
	ifaces := req.Interfaces
	if len(ifaces) == 0 {
		ifaces = []string{defaultInterface}
	}
	ifaces = ifaces[:len(ifaces):len(ifaces)]
	return append(ifaces, util.MappedSlice(req.MemoryPorts, func(name string) string {
		return "m_axi_" + name
	})...)
}

const synthScriptTemplate = `open_project "project"
set_top {{ .Top }}
{{- range .Sources }}
add_files "{{ .Path }}" -cflags "-std=c++11{{ if .CFlags }} {{ .CFlags }}{{ end }}"
{{- end }}
open_solution "{{ .Top }}"
set_part {{ printf "{%s}" .Part }}
create_clock -period {{ .ClockPeriod }} -name default
config_compile -name_max_length 253
config_interface -m_axi_addr64
config_rtl -disable_start_propagation -reset_level {{ if .ResetActiveLow }}low{{ else }}high{{ end }}
csynth_design
exit
`

// The packaging script stages the IP under scratch directories relative
// to the tool working directory, so everything except the object itself
// disappears with the working directory.
const packageScriptTemplate = `set tmp_ip_dir "tmp_ip_dir"
set tmp_project "tmp_project"

create_project -force kernel_pack ${tmp_project}
add_files -norecurse [glob {{ .HDLDir }}/*.v]
foreach tcl_file [glob -nocomplain {{ .HDLDir }}/*.tcl] {
  source ${tcl_file}
}
set_property top {{ .Top }} [current_fileset]
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
{{ range .BusInterfaces }}
ipx::associate_bus_interfaces -busif {{ . }} -clock ap_clk [ipx::current_core]
{{ end }}
set_property xpm_libraries {XPM_CDC XPM_MEMORY XPM_FIFO} [ipx::current_core]
set_property supported_families { } [ipx::current_core]
set_property auto_family_support_level level_2 [ipx::current_core]
ipx::update_checksums [ipx::current_core]
ipx::save_core [ipx::current_core]
close_project -delete

package_xo -force -xo_path "{{ .XOPath }}" -kernel_name {{ .Top }} -ip_directory ${tmp_ip_dir} -kernel_xml {{ .KernelXML }}{{ range .CPPKernels }} -kernel_files {{ . }}{{ end }}
`

var (
	synthScriptTmpl   = template.Must(template.New("synth").Parse(synthScriptTemplate))
	packageScriptTmpl = template.Must(template.New("package").Parse(packageScriptTemplate))
)

type packageScriptParams struct {
	PackageRequest
	BusInterfaces []string
}

// SynthScript renders the synthesis control script for req.
func SynthScript(req BuildRequest) (string, error) {
	var buf strings.Builder
	if err := synthScriptTmpl.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PackageScript renders the packaging control script for req.
func PackageScript(req PackageRequest) (string, error) {
	var buf strings.Builder
	params := packageScriptParams{PackageRequest: req, BusInterfaces: req.busInterfaces()}
	if err := packageScriptTmpl.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}
