package services

// assistantInstruction frames the direct Gemini chat as the career assistant.
const assistantInstruction = `Kamu adalah asisten karir AI untuk talenta digital di Indonesia.
Bantu pengguna menyusun rencana karir, roadmap belajar, sertifikasi yang dibutuhkan,
dan simulasi interview untuk okupasi berbasis SKKNI.
Jawab dalam bahasa yang dipakai pengguna, ringkas dan praktis.`

// OccupationEmbeddingText is the document text embedded for one occupation.
func OccupationEmbeddingText(name, units, keywords string) string {
	return "Okupasi: " + name + ". " +
		"Unit Kompetensi: " + units + ". " +
		"Keterampilan: " + keywords
}
