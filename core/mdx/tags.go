package mdx

import "github.com/FocuswithJustin/mdxkit/core/wire"

// Root magic.
var TagMDLX = wire.MakeTag("MDLX")

// Top-level chunk tags.
var (
	TagVERS = wire.MakeTag("VERS")
	TagMODL = wire.MakeTag("MODL")
	TagSEQS = wire.MakeTag("SEQS")
	TagGLBS = wire.MakeTag("GLBS")
	TagTEXS = wire.MakeTag("TEXS")
	TagSNDS = wire.MakeTag("SNDS")
	TagMTLS = wire.MakeTag("MTLS")
	TagTXAN = wire.MakeTag("TXAN")
	TagGEOS = wire.MakeTag("GEOS")
	TagGEOA = wire.MakeTag("GEOA")
	TagBONE = wire.MakeTag("BONE")
	TagLITE = wire.MakeTag("LITE")
	TagHELP = wire.MakeTag("HELP")
	TagATCH = wire.MakeTag("ATCH")
	TagPIVT = wire.MakeTag("PIVT")
	TagPREM = wire.MakeTag("PREM")
	TagPRE2 = wire.MakeTag("PRE2")
	TagRIBB = wire.MakeTag("RIBB")
	TagEVTS = wire.MakeTag("EVTS")
	TagCAMS = wire.MakeTag("CAMS")
	TagCLID = wire.MakeTag("CLID")
	TagBPOS = wire.MakeTag("BPOS")
	TagFAFX = wire.MakeTag("FAFX")
	TagCORN = wire.MakeTag("CORN")
)

// Fixed inner tags.
var (
	tagLAYS = wire.MakeTag("LAYS")
	tagVRTX = wire.MakeTag("VRTX")
	tagNRMS = wire.MakeTag("NRMS")
	tagPTYP = wire.MakeTag("PTYP")
	tagPCNT = wire.MakeTag("PCNT")
	tagPVTX = wire.MakeTag("PVTX")
	tagGNDX = wire.MakeTag("GNDX")
	tagMTGC = wire.MakeTag("MTGC")
	tagMATS = wire.MakeTag("MATS")
	tagTANG = wire.MakeTag("TANG")
	tagSKIN = wire.MakeTag("SKIN")
	tagUVAS = wire.MakeTag("UVAS")
	tagUVBS = wire.MakeTag("UVBS")
	tagKEVT = wire.MakeTag("KEVT")
)

// Animation track tags.
var (
	tagKGTR = wire.MakeTag("KGTR")
	tagKGRT = wire.MakeTag("KGRT")
	tagKGSC = wire.MakeTag("KGSC")

	tagKMTF = wire.MakeTag("KMTF")
	tagKMTA = wire.MakeTag("KMTA")
	tagKMTE = wire.MakeTag("KMTE")
	tagKFC3 = wire.MakeTag("KFC3")
	tagKFCA = wire.MakeTag("KFCA")
	tagKFTC = wire.MakeTag("KFTC")

	tagKTAT = wire.MakeTag("KTAT")
	tagKTAR = wire.MakeTag("KTAR")
	tagKTAS = wire.MakeTag("KTAS")

	tagKGAO = wire.MakeTag("KGAO")
	tagKGAC = wire.MakeTag("KGAC")

	tagKLAS = wire.MakeTag("KLAS")
	tagKLAE = wire.MakeTag("KLAE")
	tagKLAC = wire.MakeTag("KLAC")
	tagKLAI = wire.MakeTag("KLAI")
	tagKLBI = wire.MakeTag("KLBI")
	tagKLBC = wire.MakeTag("KLBC")
	tagKLAV = wire.MakeTag("KLAV")

	tagKATV = wire.MakeTag("KATV")

	tagKPEE = wire.MakeTag("KPEE")
	tagKPEG = wire.MakeTag("KPEG")
	tagKPLN = wire.MakeTag("KPLN")
	tagKPLT = wire.MakeTag("KPLT")
	tagKPEL = wire.MakeTag("KPEL")
	tagKPES = wire.MakeTag("KPES")
	tagKPEV = wire.MakeTag("KPEV")

	tagKP2S = wire.MakeTag("KP2S")
	tagKP2R = wire.MakeTag("KP2R")
	tagKP2L = wire.MakeTag("KP2L")
	tagKP2G = wire.MakeTag("KP2G")
	tagKP2E = wire.MakeTag("KP2E")
	tagKP2N = wire.MakeTag("KP2N")
	tagKP2W = wire.MakeTag("KP2W")
	tagKP2V = wire.MakeTag("KP2V")

	tagKRHA = wire.MakeTag("KRHA")
	tagKRHB = wire.MakeTag("KRHB")
	tagKRAL = wire.MakeTag("KRAL")
	tagKRCO = wire.MakeTag("KRCO")
	tagKRTX = wire.MakeTag("KRTX")
	tagKRVS = wire.MakeTag("KRVS")

	tagKCTR = wire.MakeTag("KCTR")
	tagKTTR = wire.MakeTag("KTTR")
	tagKCRL = wire.MakeTag("KCRL")

	tagKPPA = wire.MakeTag("KPPA")
	tagKPPC = wire.MakeTag("KPPC")
	tagKPPE = wire.MakeTag("KPPE")
	tagKPPL = wire.MakeTag("KPPL")
	tagKPPS = wire.MakeTag("KPPS")
	tagKPPV = wire.MakeTag("KPPV")
)
