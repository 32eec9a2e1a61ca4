package audiohal

// ADCInput selects the codec's analog input path.
type ADCInput uint8

const (
	ADCInputLine1 ADCInput = iota + 1
	ADCInputLine2
	ADCInputAll
	ADCInputDifference
)

// DACOutput selects the codec's analog output path.
type DACOutput uint8

const (
	DACOutputLeft DACOutput = iota + 1
	DACOutputRight
	DACOutputAll
)

// Mode is the direction a codec is used in.
type Mode uint8

const (
	ModeEncode Mode = iota + 1 // ADC only
	ModeDecode                 // DAC only
	ModeBoth
	ModeLineIn
)

func (m Mode) String() string {
	switch m {
	case ModeEncode:
		return "encode"
	case ModeDecode:
		return "decode"
	case ModeBoth:
		return "both"
	case ModeLineIn:
		return "line_in"
	default:
		return "unknown"
	}
}

// Role is the I2S clock role of the codec.
type Role uint8

const (
	RoleSlave Role = iota
	RoleMaster
)

// Format is the I2S frame format.
type Format uint8

const (
	FormatI2S Format = iota
	FormatLeftJustified
	FormatRightJustified
	FormatDSP
)

// State is a codec run state for Ctrl.
type State uint8

const (
	Stop State = iota
	Start
)

// Iface describes the digital audio interface between the SoC and the codec.
type Iface struct {
	Role       Role
	Format     Format
	SampleRate uint32 // Hz
	Bits       uint8  // 16, 24 or 32
}

// CodecConfig is what a codec is initialised with.
type CodecConfig struct {
	ADCInput  ADCInput
	DACOutput DACOutput
	Mode      Mode
	Iface     Iface
}

// DefaultVolume is applied by Init, in percent.
const DefaultVolume = 70

// ES8311Config is the board default for the ES8311 playback codec.
func ES8311Config() CodecConfig {
	return CodecConfig{
		ADCInput:  ADCInputLine1,
		DACOutput: DACOutputAll,
		Mode:      ModeDecode,
		Iface:     Iface{Role: RoleSlave, Format: FormatI2S, SampleRate: 48000, Bits: 16},
	}
}

// ES7210Config is the board default for the ES7210 microphone ADC.
func ES7210Config() CodecConfig {
	return CodecConfig{
		ADCInput:  ADCInputAll,
		DACOutput: DACOutputAll,
		Mode:      ModeEncode,
		Iface:     Iface{Role: RoleSlave, Format: FormatI2S, SampleRate: 48000, Bits: 16},
	}
}

// Validate rejects configurations no driver can apply.
func (c CodecConfig) Validate() error {
	if c.Mode < ModeEncode || c.Mode > ModeLineIn {
		return ErrInvalidConfig
	}
	switch c.Iface.Bits {
	case 16, 24, 32:
	default:
		return ErrInvalidConfig
	}
	if c.Iface.SampleRate == 0 {
		return ErrInvalidConfig
	}
	return nil
}
